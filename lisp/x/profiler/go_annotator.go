package profiler

import (
	"context"
	"errors"
	"runtime/pprof"

	"github.com/luthersystems/lsp/lisp"
)

// PprofAnnotator labels the current goroutine with the name of the lisp
// function being executed so that CPU profiles collected with runtime/pprof
// can be broken down by lisp function.  The annotator does not start pprof
// itself.
type PprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &PprofAnnotator{}

func NewPprofAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *PprofAnnotator {
	p := &PprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *PprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

// SetFile always fails.  Profiles are written by runtime/pprof.
func (p *PprofAnnotator) SetFile(filename string) error {
	return errors.New("pprof annotator does not write files")
}

func (p *PprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

// Context returns the labeled context of the function being executed.
func (p *PprofAnnotator) Context() context.Context {
	return p.currentContext
}

func (p *PprofAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(oldContext)
	}
}
