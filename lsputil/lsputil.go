// Copyright © 2018 The ELPS authors

// Package lsputil constructs standard environments, evaluates source text,
// and helps embedders extend environments with functions implemented in Go.
package lsputil

import (
	"strings"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/lisplib"
	"github.com/luthersystems/lsp/parser"
)

// SourceName is the name given to text evaluated by EvaluateSource.
const SourceName = "<source>"

// NewEnv returns a root environment with the builtin functions and special
// operators registered and the prelude evaluated.  Configs are applied
// before the prelude is loaded.  The default reader is installed unless a
// config replaces it.
func NewEnv(config ...lisp.Config) (*lisp.LEnv, error) {
	env, err := NewBareEnv(config...)
	if err != nil {
		return nil, err
	}
	err = lisp.GoError(lisplib.LoadLibrary(env))
	if err != nil {
		return nil, err
	}
	return env, nil
}

// NewBareEnv is like NewEnv but does not load the prelude.
func NewBareEnv(config ...lisp.Config) (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	config = append([]lisp.Config{lisp.WithReader(parser.NewReader())}, config...)
	err := lisp.GoError(lisp.InitializeUserEnv(env, config...))
	if err != nil {
		return nil, err
	}
	return env, nil
}

// EvaluateSource evaluates the expressions in text, in order, in a new
// standard environment and returns the value of the last one.  Empty text
// evaluates to nil.  Errors are returned as *lisp.ErrorVal.
func EvaluateSource(text string) (*lisp.LVal, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	return EvaluateSourceEnv(env, SourceName, text)
}

// EvaluateSourceEnv is like EvaluateSource but evaluates text in env.
func EvaluateSourceEnv(env *lisp.LEnv, name string, text string) (*lisp.LVal, error) {
	v := env.Load(name, strings.NewReader(text))
	if err := lisp.GoError(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Function is a helper to construct builtins.
func Function(name string, formals *lisp.LVal, fun lisp.LBuiltin) *Builtin {
	return &Builtin{formals: formals, fun: fun, name: name}
}

// FunctionDoc is like Function but attaches a docstring.
func FunctionDoc(name string, formals *lisp.LVal, fun lisp.LBuiltin, docs string) *Builtin {
	return &Builtin{formals: formals, fun: fun, name: name, docs: docs}
}

// GoFunc is a Go function whose result is converted to lisp with
// lisp.Value.
type GoFunc func(args []*lisp.LVal) (interface{}, error)

// GoFunction is like FunctionDoc but wraps fn, which need not construct
// lisp values itself.  A non-nil error from fn is returned as a lisp error.
func GoFunction(name string, formals *lisp.LVal, fn GoFunc, docs string) *Builtin {
	fun := func(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
		v, err := fn(args.Cells)
		if err != nil {
			return env.Error(err)
		}
		lval := lisp.Value(v)
		if lval.Type == lisp.LError {
			return env.ErrorConditionf(lisp.CondTypeError, "%s: cannot convert result to lisp: %T", name, v)
		}
		return lval
	}
	return FunctionDoc(name, formals, fun, docs)
}

// Builtin captures Go functions that are callable from lisp.
type Builtin struct {
	formals *lisp.LVal
	fun     lisp.LBuiltin
	name    string
	docs    string
}

// Name returns the name of a function.
func (fun *Builtin) Name() string {
	return fun.name
}

// Formals returns the formal arguments of a function.
func (fun *Builtin) Formals() *lisp.LVal {
	return fun.formals
}

// Eval evaluates a function on an environment.
func (fun *Builtin) Eval(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return fun.fun(env, args)
}

// Docstring returns the function documentation.
func (fun *Builtin) Docstring() string {
	return fun.docs
}

// Loader is a generic function to initialize/load an LEnv.  A chain of
// loaders may be formed to load a library.
type Loader = lisp.Loader

// Extension is a set of definitions implemented in Go.
type Extension interface {
	ExtensionName() string
}

// ExtensionInit allows initialization of an extension, such as evaluating
// lisp source which depends on its builtins.  Init runs after the builtins,
// special operators, and macros of the extension are registered.
type ExtensionInit interface {
	Extension
	ExtensionInit(env *lisp.LEnv) *lisp.LVal
}

// ExtensionBuiltins exposes the builtin functions of an extension.
type ExtensionBuiltins interface {
	Extension
	Builtins() []lisp.LBuiltinDef
}

// ExtensionSpecialOps exposes the special operators of an extension.
type ExtensionSpecialOps interface {
	Extension
	SpecialOps() []lisp.LBuiltinDef
}

// ExtensionMacros exposes the macros of an extension.
type ExtensionMacros interface {
	Extension
	Macros() []lisp.LBuiltinDef
}

// LoadAll returns a Loader which calls each fn in order, stopping at the
// first error.
func LoadAll(fn ...Loader) Loader {
	return func(env *lisp.LEnv) *lisp.LVal {
		for _, fn := range fn {
			lerr := fn(env)
			if lerr.Type == lisp.LError {
				return lerr
			}
		}
		return lisp.Nil()
	}
}

// LibraryLoader loads multiple extensions.
func LibraryLoader(exts ...Extension) Loader {
	loaders := make([]Loader, len(exts))
	for i := range exts {
		loaders[i] = ExtensionLoader(exts[i])
	}
	return LoadAll(loaders...)
}

// ExtensionLoader returns a Loader which registers the definitions of ext in
// the root environment.
func ExtensionLoader(ext Extension) Loader {
	return func(env *lisp.LEnv) *lisp.LVal {
		if p, ok := ext.(ExtensionBuiltins); ok && len(p.Builtins()) > 0 {
			env.AddBuiltins(p.Builtins()...)
		}
		if p, ok := ext.(ExtensionSpecialOps); ok && len(p.SpecialOps()) > 0 {
			env.AddSpecialOps(p.SpecialOps()...)
		}
		if p, ok := ext.(ExtensionMacros); ok {
			env.AddMacros(p.Macros()...)
		}
		if p, ok := ext.(ExtensionInit); ok {
			return p.ExtensionInit(env)
		}
		return lisp.Nil()
	}
}

// WithLoader returns a Config which runs fn while an environment is
// initialized.
func WithLoader(fn Loader) lisp.Config {
	return lisp.Config(fn)
}
