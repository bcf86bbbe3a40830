package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/lsp/lisp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context key.
	ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

	// DefaultTracerName is the tracer used when the parent context does not
	// name one.
	DefaultTracerName = "lsp"
)

// OpenTelemetryAnnotator records a span for each traced function call using
// the global TracerProvider.
type OpenTelemetryAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

var _ lisp.Profiler = &OpenTelemetryAnnotator{}

func NewOpenTelemetryAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *OpenTelemetryAnnotator {
	p := &OpenTelemetryAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *OpenTelemetryAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("spans can only be added to a context linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *OpenTelemetryAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *OpenTelemetryAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, funName := p.prettyFunName(fun)
	p.currentContext, p.currentSpan = contextTracer(p.currentContext).Start(p.currentContext, prettyLabel)
	p.addCodeAttributes(fun, funName)
	return func() {
		p.currentSpan.End()
		p.currentContext = oldContext
		p.currentSpan = trace.SpanFromContext(p.currentContext)
	}
}

func (p *OpenTelemetryAnnotator) addCodeAttributes(fun *lisp.LVal, funName string) {
	attrs := []attribute.KeyValue{
		semconv.CodeFunction(funName),
	}
	if loc := getSourceLoc(fun); loc != nil {
		attrs = append(attrs,
			semconv.CodeColumn(loc.Col),
			semconv.CodeFilepath(loc.File),
			semconv.CodeLineNumber(loc.Line),
		)
	}
	p.currentSpan.SetAttributes(attrs...)
}
