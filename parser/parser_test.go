// Copyright © 2024 The ELPS authors

package parser

import (
	"strings"
	"testing"

	"github.com/luthersystems/lsp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader_Standard(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader("(+ 1 2)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, lisp.LList, exprs[0].Type)
	assert.Len(t, exprs[0].Cells, 3)
}

func TestNewReader_Literals(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader(`42 1/3 "s" sym [1] {1 2}`))
	require.NoError(t, err)
	require.Len(t, exprs, 6)
	assert.Equal(t, lisp.LInt, exprs[0].Type)
	assert.Equal(t, 42, exprs[0].Int)
	assert.Equal(t, lisp.LRational, exprs[1].Type)
	assert.Equal(t, lisp.LString, exprs[2].Type)
	assert.Equal(t, "s", exprs[2].Str)
	assert.Equal(t, lisp.LSymbol, exprs[3].Type)
	assert.Equal(t, lisp.LVector, exprs[4].Type)
	assert.Equal(t, lisp.LMap, exprs[5].Type)
}

func TestNewReader_Standard_ParseError(t *testing.T) {
	r := NewReader()
	_, err := r.Read("test", strings.NewReader("(unclosed"))
	assert.Error(t, err)
}

func TestNewReader_Standard_LocationReader(t *testing.T) {
	r := NewReader()
	lr, ok := r.(lisp.LocationReader)
	require.True(t, ok, "standard reader should implement LocationReader")

	exprs, err := lr.ReadLocation("logical", "/path/to/file.lisp", strings.NewReader("(bar)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, "logical", exprs[0].Source.File)
	assert.Equal(t, "/path/to/file.lisp", exprs[0].Source.Path)
}

func TestRead(t *testing.T) {
	v, err := Read("(1 2) ignored")
	require.NoError(t, err)
	assert.Equal(t, "(1 2)", v.String())
}
