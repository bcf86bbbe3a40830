// Copyright © 2021 The ELPS authors

package libhelp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luthersystems/lsp/elpstest"
	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/lisplib"
	"github.com/luthersystems/lsp/lisp/lisplib/libhelp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) *lisp.LEnv {
	env, err := lisplib.NewDocEnv()
	require.NoError(t, err)
	return env
}

func TestDocstring(t *testing.T) {
	env := newEnv(t)

	for _, name := range []string{"map", "+", "if", "defn"} {
		doc, ok := libhelp.Docstring(env, name)
		assert.True(t, ok, name)
		assert.NotEqual(t, "", doc, name)
	}
	_, ok := libhelp.Docstring(env, "no-such-symbol")
	assert.False(t, ok)

	rc := env.LoadString("test.lsp", `
	(defn const-string1 () "abc")
	(defn const-string2 () "abc" "")
	`)
	require.False(t, rc.Type == lisp.LError, "%v", rc)

	doc, ok := libhelp.Docstring(env, "const-string1")
	assert.True(t, ok)
	assert.Equal(t, "", doc)
	doc, ok = libhelp.Docstring(env, "const-string2")
	assert.True(t, ok)
	assert.Equal(t, "abc", doc)
}

func TestSignature(t *testing.T) {
	env := newEnv(t)
	assert.Equal(t, "(map f coll)", libhelp.Signature("map", env.Get(lisp.Symbol("map"))))
	assert.Equal(t, "(+ & nums)", libhelp.Signature("+", env.Get(lisp.Symbol("+"))))
	assert.Equal(t, "(if condition then else)", libhelp.Signature("if", env.GetMacro(lisp.Symbol("if"))))
	assert.Equal(t, "(let bindings & body)", libhelp.Signature("let", env.GetMacro(lisp.Symbol("let"))))
}

func TestRenderVar(t *testing.T) {
	env := newEnv(t)

	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderVar(&buf, env, "map"))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "function (map f coll)", lines[0])
	assert.Contains(t, buf.String(), "  Returns a list of the results of calling f")

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "if"))
	assert.True(t, strings.HasPrefix(buf.String(), "special-op (if condition then else)\n"), buf.String())

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "cond"))
	assert.True(t, strings.HasPrefix(buf.String(), "macro (cond & clauses)\n"), buf.String())

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "len"))
	assert.True(t, strings.HasPrefix(buf.String(), "builtin (len coll)\n"), buf.String())

	rc := env.LoadString("test.lsp", `(def answer 42)`)
	require.False(t, rc.Type == lisp.LError, "%v", rc)
	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "answer"))
	assert.Equal(t, "int answer 42\n", buf.String())

	buf.Reset()
	assert.Error(t, libhelp.RenderVar(&buf, env, "no-such-symbol"))
}

func TestNames(t *testing.T) {
	env := newEnv(t)
	names := libhelp.Names(env)
	assert.True(t, len(names) > 0)
	assert.Contains(t, names, "if")
	assert.Contains(t, names, "map")
	assert.Contains(t, names, "help")
	for i := 1; i < len(names); i++ {
		assert.True(t, names[i-1] < names[i], "%q before %q", names[i-1], names[i])
	}
}

func TestRenderSymbolList(t *testing.T) {
	env := newEnv(t)
	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderSymbolList(&buf, env))
	out := buf.String()
	assert.Contains(t, out, "  filter")
	assert.Contains(t, out, "Returns a list of the elements of coll for which pred is truthy.")
}

func TestCheckMissing(t *testing.T) {
	env := newEnv(t)
	assert.Empty(t, libhelp.CheckMissing(env))

	rc := env.LoadString("test.lsp", `(defn undocumented (x) x)`)
	require.False(t, rc.Type == lisp.LError, "%v", rc)
	missing := libhelp.CheckMissing(env)
	if assert.Len(t, missing, 1) {
		assert.Equal(t, "undocumented", missing[0].Name)
		assert.Equal(t, "function", missing[0].Kind)
	}
}

func TestCleanDocstring(t *testing.T) {
	assert.Equal(t, "", libhelp.CleanDocstring(""))
	doc := libhelp.CleanDocstring(`
	First line.
	Second line.`)
	assert.Equal(t, "  First line.\n  Second line.", doc)
}

func TestHelpOps(t *testing.T) {
	tests := elpstest.TestSuite{
		{"help", elpstest.TestSequence{
			{"(help inc)", "nil", "function (inc x)\n  Returns x plus one.\n"},
			{"(help 1)", "test:1:1: type-error: argument is not a symbol: int", ""},
			{"(help missing)", "test:1:1: unbound-symbol: missing", ""},
		}},
	}
	elpstest.RunTestSuite(t, tests)
}

func TestLookupKind(t *testing.T) {
	env := newEnv(t)
	assert.Nil(t, libhelp.Lookup(env, "no-such-symbol"))

	for name, kind := range map[string]string{
		"if":   "special-op",
		"defn": "macro",
		"len":  "builtin",
		"map":  "function",
	} {
		v := libhelp.Lookup(env, name)
		if assert.NotNil(t, v, name) {
			assert.Equal(t, kind, libhelp.Kind(v), name)
		}
	}

	rc := env.LoadString("test.lsp", `(def answer 42)`)
	require.False(t, rc.Type == lisp.LError, "%v", rc)
	v := libhelp.Lookup(env, "answer")
	if assert.NotNil(t, v) {
		assert.Equal(t, "42", v.String())
	}
}

func TestDedent(t *testing.T) {
	assert.Equal(t, "", libhelp.Dedent(""))
	assert.Equal(t, "One line.", libhelp.Dedent("  One line.  "))
	assert.Equal(t, "First.\n  Indented.\nLast.", libhelp.Dedent(`
		First.
		  Indented.
		Last.
	`))
}
