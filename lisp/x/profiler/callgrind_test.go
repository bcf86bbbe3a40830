package profiler_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallgrindProfiler(t *testing.T) {
	var buf bytes.Buffer
	var p *profiler.CallgrindProfiler
	env := newEnv(t, func(rt *lisp.Runtime) {
		p = profiler.NewCallgrindProfiler(rt)
		require.NoError(t, p.SetWriter(&buf))
		require.NoError(t, p.Enable())
	})
	assert.True(t, p.IsEnabled())
	assert.Error(t, p.SetWriter(&buf))

	lerr := env.LoadString("test.lsp", testLisp)
	assert.NoError(t, lisp.GoError(lerr))
	require.NoError(t, p.Complete())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "version: 1\ncreator: lsp "), out)
	assert.Contains(t, out, "events: Time_(ns) Memory_(bytes)")
	assert.Contains(t, out, ") add-it\n")
	assert.Contains(t, out, ") recurse-it\n")
	assert.Contains(t, out, ") ENTRYPOINT\n")
	assert.Contains(t, out, "calls=1 0 0\n")
	assert.Contains(t, out, "\nsummary: ")
}

func TestCallgrindProfilerFile(t *testing.T) {
	env := lisp.NewEnv(nil)
	p := profiler.NewCallgrindProfiler(env.Runtime)
	assert.Same(t, env.Runtime.Profiler, p)
	assert.Error(t, p.Enable(), "no output")
	require.NoError(t, p.SetFile(filepath.Join(t.TempDir(), "callgrind.out")))
	require.NoError(t, p.Enable())
	require.NoError(t, p.Complete())
}
