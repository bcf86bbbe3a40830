// Copyright © 2018 The ELPS authors

package rdparser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/parser/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser(t *testing.T) {
	tests := []struct {
		source string
		output string
	}{
		{`0`, `0`},
		{`12`, `12`},
		{`-1`, `-1`},
		{`+7`, `7`},
		{`1/2`, `1/2`},
		{`4/2`, `2`},
		{`-3/6`, `-1/2`},
		{`true`, `true`},
		{`false`, `false`},
		{`nil`, `nil`},
		{`abc`, `abc`},
		{`abc?`, `abc?`},
		{`a/b`, `a/b`},
		{`-`, `-`},
		{`"xyz"`, `"xyz"`},
		{`"x\nyz"`, `"x\nyz"`},
		{`"x y z"`, `"x y z"`},
		{"\"a\nb\"", `"a\nb"`},
		{"\"a\r\n\tb\"", `"a\r\n\tb"`},
		{`"\u00e9t\u00e9"`, `"été"`},
		{`"say \"hi\""`, `"say \"hi\""`},
		{`""`, `""`},
		{`()`, `()`},
		{`'xyz`, `(quote xyz)`},
		{"`(a ~b ~@c)", `(quasiquote (a (unquote b) (unquote-splicing c)))`},
		{`(1 2 3)`, `(1 2 3)`},
		{`(1, 2, 3)`, `(1 2 3)`},
		{`(1 "abc" '(x y z))`, `(1 "abc" (quote (x y z)))`},
		{`(1 "abc" [x y z])`, `(1 "abc" [x y z])`},
		{`{:a 1 :b 2}`, `{:a 1, :b 2}`},
		{`{:a 1 :b}`, `{:a 1}`},
	}

	for i, test := range tests {
		name := fmt.Sprintf("test%d", i)
		exprs, err := NewReader().Read(name, strings.NewReader(test.source))
		if !assert.NoError(t, err, "test %d", i) {
			continue
		}
		if !assert.Len(t, exprs, 1, "test %d", i) {
			continue
		}
		testLValLocation(t, exprs[0])
		assert.Equal(t, test.output, exprs[0].String(), "test %d", i)
	}
}

func TestComments(t *testing.T) {
	tests := []struct {
		source string
		output string
	}{
		{`(1 2 3) ; A comment`, `(1 2 3)`},
		{`	; A comment
			(1 "abc" '(x y z))`, `(1 "abc" (quote (x y z)))`},
		{`(1 "abc" ; A comment
			'(x y z))`, `(1 "abc" (quote (x y z)))`},
		{`(1 "abc" ; A comment
			)`, `(1 "abc")`},
	}

	for i, test := range tests {
		name := fmt.Sprintf("test%d", i)
		exprs, err := NewReader().Read(name, strings.NewReader(test.source))
		if !assert.NoError(t, err, "test %d", i) {
			continue
		}
		if assert.Len(t, exprs, 1, "test %d", i) {
			assert.Equal(t, test.output, exprs[0].String(), "test %d", i)
		}
	}
}

func testLValLocation(t *testing.T, v *lisp.LVal) {
	if v.Source == nil {
		t.Errorf("value missing source location: %v", v)
	}
	for _, v := range v.Cells {
		testLValLocation(t, v)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		source     string
		errmsg     string
		incomplete bool
	}{
		{`(1 2 3`, `test0:1:7: syntax-error: expected ')'`, true},
		{`[1 2`, `test1:1:5: syntax-error: expected ']'`, true},
		{`'`, `test2:1:2: syntax-error: unexpected end of input`, true},
		{`(1 2))`, `test3:1:6: syntax-error: unexpected ')'`, false},
		{`(1 2]`, `test4:1:5: syntax-error: unexpected ']'`, false},
		{"(1 2)\n  \"abc", `test5:2:3: syntax-error: unterminated string literal`, true},
		{`1/0`, `test6:1:1: syntax-error: invalid rational literal: 1/0`, false},
		{`99999999999999999999999`, `test7:1:1: syntax-error: integer literal out of range: 99999999999999999999999`, false},
		{`"a\qb"`, `test8:1:1: syntax-error: invalid string literal: "a\qb"`, false},
	}

	for i, test := range tests {
		name := fmt.Sprintf("test%d", i)
		_, err := NewReader().Read(name, strings.NewReader(test.source))
		if !assert.Error(t, err, "test %d", i) {
			continue
		}
		assert.Equal(t, test.errmsg, err.Error(), "test %d", i)
		assert.Equal(t, test.incomplete, IsIncomplete(err), "test %d", i)
	}
}

func TestParseWords(t *testing.T) {
	words := lexer.Lex(`(+ 1 2) 'x`)
	v, err := Parse(&words)
	require.NoError(t, err)
	assert.Equal(t, `(+ 1 2)`, v.String())
	assert.Equal(t, []string{"'", "x"}, words)

	v, err = Parse(&words)
	require.NoError(t, err)
	assert.Equal(t, `(quote x)`, v.String())
	assert.Empty(t, words)

	_, err = Parse(&words)
	assert.True(t, IsIncomplete(err))
}

func TestReadQuoteEquivalence(t *testing.T) {
	a, err := Read(`'(1 2)`)
	require.NoError(t, err)
	b, err := Read(`(quote (1 2))`)
	require.NoError(t, err)
	assert.True(t, lisp.Equal(a, b))
}

func TestIntegerRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 42, 1000, 123456789, -5} {
		v, err := Read(fmt.Sprint(n))
		require.NoError(t, err)
		assert.Equal(t, lisp.LInt, v.Type)
		assert.Equal(t, n, v.Int)
	}
}

func TestReadLocation(t *testing.T) {
	r := NewReader().(lisp.LocationReader)
	exprs, err := r.ReadLocation("logical", "/path/to/file.lisp", strings.NewReader("\n  (foo)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, "logical", exprs[0].Source.File)
	assert.Equal(t, "/path/to/file.lisp", exprs[0].Source.Path)
	assert.Equal(t, 2, exprs[0].Source.Line)
	assert.Equal(t, 3, exprs[0].Source.Col)
}

func TestMultilineString(t *testing.T) {
	src := "(defn f ()\n  \"First line.\n  Second line.\"\n  x)"
	exprs, err := NewReader().Read("doc.lsp", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	cells := exprs[0].Cells
	require.Len(t, cells, 5)
	assert.Equal(t, lisp.LString, cells[3].Type)
	assert.Equal(t, "First line.\n  Second line.", cells[3].Str)
	assert.Equal(t, 2, cells[3].Source.Line)
	assert.Equal(t, 3, cells[3].Source.Col)
	assert.Equal(t, 4, cells[4].Source.Line)
	assert.Equal(t, 3, cells[4].Source.Col)
}
