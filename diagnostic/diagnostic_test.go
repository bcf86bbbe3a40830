// Copyright © 2024 The ELPS authors

package diagnostic_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/luthersystems/lsp/diagnostic"
	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lsputil"
	"github.com/luthersystems/lsp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLispError(t *testing.T) {
	env, err := lsputil.NewEnv()
	require.NoError(t, err)
	_, err = lsputil.EvaluateSourceEnv(env, "trace.lsp", `(defn f (xs) (nth xs 3))
(f (list 1 2))`)
	require.Error(t, err)

	d := diagnostic.FromError(err)
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "error", d.Condition)
	assert.Equal(t, "nth: index out of range: 3", d.Message)
	if assert.Len(t, d.Spans, 1) {
		assert.Equal(t, diagnostic.Span{File: "trace.lsp", Line: 1, Col: 14}, d.Spans[0])
	}
	assert.Equal(t, []string{
		"in nth at trace.lsp:1:14",
		"in f at trace.lsp:2:1",
	}, d.Notes)
}

func TestFromLispCondition(t *testing.T) {
	_, err := lsputil.EvaluateSource("(+ 1 y)")
	require.Error(t, err)
	d := diagnostic.FromError(err)
	assert.Equal(t, "unbound-symbol", d.Condition)
	assert.Equal(t, "unbound-symbol: y", d.Message)
	if assert.Len(t, d.Spans, 1) {
		assert.Equal(t, 6, d.Spans[0].Col)
	}
}

func TestFromSyntaxError(t *testing.T) {
	_, err := parser.Read("(1 2")
	require.Error(t, err)
	d := diagnostic.FromError(err)
	assert.Equal(t, "syntax-error", d.Condition)
	assert.Equal(t, "syntax-error: expected ')'", d.Message)
	assert.Empty(t, d.Notes)
}

func TestFromGoError(t *testing.T) {
	d := diagnostic.FromError(errors.New("open x.lsp: no such file or directory"))
	assert.Equal(t, "open x.lsp: no such file or directory", d.Message)
	assert.Empty(t, d.Spans)
	assert.Empty(t, d.Condition)
}

func TestRenderError(t *testing.T) {
	r := &diagnostic.Renderer{Color: diagnostic.ColorNever}
	r.AddSource("<expr>", "(if true 1)")
	_, err := lsputil.EvaluateSourceEnv(mustEnv(t), "<expr>", "(if true 1)")
	require.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderError(&buf, err))
	assert.Equal(t, `error: syntax-error: if expects 3 parts, got 2
  --> <expr>:1:1
   |
 1 |  (if true 1)
   |  ^^^^^^^^^^^
   |
   = note: in if at <expr>:1:1
`, buf.String())
}

func mustEnv(t *testing.T) *lisp.LEnv {
	env, err := lsputil.NewEnv()
	require.NoError(t, err)
	return env
}
