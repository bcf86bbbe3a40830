package profiler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

func TestOpenCensusAnnotator(t *testing.T) {
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	exporter := &recordingExporter{}
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	var p *profiler.OpenCensusAnnotator
	env := newEnv(t, func(rt *lisp.Runtime) {
		p = profiler.NewOpenCensusAnnotator(rt, context.Background(), profiler.WithoutBuiltins())
		require.NoError(t, p.Enable())
	})
	lerr := env.LoadString("test.lsp", testLisp)
	assert.NoError(t, lisp.GoError(lerr))
	assert.NoError(t, p.Complete())

	names := exporter.names()
	assert.Contains(t, names, "add-it")
	assert.Contains(t, names, "recurse-it")
	assert.Contains(t, names, "print-it")
	assert.NotContains(t, names, "+")
}

func TestOpenCensusAnnotatorNoContext(t *testing.T) {
	env := lisp.NewEnv(nil)
	p := profiler.NewOpenCensusAnnotator(env.Runtime, nil)
	assert.Error(t, p.Enable())
	assert.Error(t, p.EnableWithContext(nil))
	assert.NoError(t, p.EnableWithContext(context.Background()))
	assert.True(t, p.IsEnabled())
}

type recordingExporter struct {
	mut   sync.Mutex
	spans []*trace.SpanData
}

func (e *recordingExporter) ExportSpan(sd *trace.SpanData) {
	e.mut.Lock()
	defer e.mut.Unlock()
	e.spans = append(e.spans, sd)
}

func (e *recordingExporter) names() []string {
	e.mut.Lock()
	defer e.mut.Unlock()
	names := make([]string, len(e.spans))
	for i := range e.spans {
		names[i] = e.spans[i].Name
	}
	return names
}
