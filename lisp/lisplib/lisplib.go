// Copyright © 2018 The ELPS authors

// Package lisplib is used to conveniently load the standard library for the
// lsp environment
package lisplib

import (
	_ "embed"
	"strings"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/lisplib/libhelp"
	"github.com/luthersystems/lsp/parser"
)

// PreludeName is the source name reported in locations within the prelude.
const PreludeName = "prelude.lsp"

//go:embed prelude.lsp
var preludeSource string

var loadPrelude = lisp.LoaderMust(lisp.TextLoader(parser.NewReader(), PreludeName, strings.NewReader(preludeSource)))

// PreludeSource returns the text of the prelude.
func PreludeSource() string {
	return preludeSource
}

// LoadPrelude evaluates the prelude in env, which should be a root
// environment with the default builtins and special operators installed.
func LoadPrelude(env *lisp.LEnv) *lisp.LVal {
	return loadPrelude(env)
}

// LoadLibrary loads the help functions and the prelude into env.
func LoadLibrary(env *lisp.LEnv) *lisp.LVal {
	e := libhelp.LoadPackage(env)
	if !e.IsNil() {
		return e
	}
	e = LoadPrelude(env)
	if e.Type == lisp.LError {
		return e
	}
	return lisp.Nil()
}

// NewDocEnv creates a standard environment with the library loaded,
// suitable for documentation queries.
func NewDocEnv() (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	env.Runtime.Stderr = &strings.Builder{}
	rc := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()))
	if !rc.IsNil() {
		return nil, lisp.GoError(rc)
	}
	rc = LoadLibrary(env)
	if !rc.IsNil() {
		return nil, lisp.GoError(rc)
	}
	return env, nil
}
