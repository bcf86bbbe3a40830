package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/lsp/lisp"
	"go.opencensus.io/trace"
)

// OpenCensusAnnotator records a span for each traced function call as a
// child of the span in its parent context.
type OpenCensusAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

var _ lisp.Profiler = &OpenCensusAnnotator{}

func NewOpenCensusAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *OpenCensusAnnotator {
	p := &OpenCensusAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the annotator with ctx as the parent of all
// spans.
func (p *OpenCensusAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("a context is required")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *OpenCensusAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("spans can only be added to a context linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *OpenCensusAnnotator) Complete() error {
	for len(p.contexts) > 0 {
		p.pop()
	}
	return nil
}

func (p *OpenCensusAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, prettyLabel)
	if loc := getSourceLoc(fun); loc != nil {
		p.currentSpan.AddAttributes(
			trace.StringAttribute("file", loc.File),
			trace.Int64Attribute("line", int64(loc.Line)),
		)
	}
	return p.pop
}

func (p *OpenCensusAnnotator) pop() {
	if len(p.contexts) == 0 {
		return
	}
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	n := len(p.contexts) - 1
	p.currentContext = p.contexts[n]
	p.contexts = p.contexts[:n]
	p.currentSpan = trace.FromContext(p.currentContext)
}
