// Copyright © 2021 The ELPS authors

// Package libhelp renders documentation for the functions, macros, and
// special operators visible in an environment.
package libhelp

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/luthersystems/lsp/lisp"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// MissingDoc describes a symbol with no documentation.
type MissingDoc struct {
	// Kind is the type of the symbol: "builtin", "special-op", "macro", or
	// "function".
	Kind string

	Name string
}

// CheckMissing reports symbols missing documentation in the given environment.
// Core builtins and special operators are checked from their definitions.
// Functions and macros defined in lisp are checked in the root scope of env.
func CheckMissing(env *lisp.LEnv) []MissingDoc {
	var missing []MissingDoc
	for _, b := range lisp.DefaultBuiltins() {
		if docstring(b) == "" {
			missing = append(missing, MissingDoc{Kind: "builtin", Name: b.Name()})
		}
	}
	for _, op := range lisp.DefaultSpecialOps() {
		if docstring(op) == "" {
			missing = append(missing, MissingDoc{Kind: "special-op", Name: op.Name()})
		}
	}
	for _, name := range Names(env) {
		v := Lookup(env, name)
		if v == nil || v.Type != lisp.LFun || v.Builtin() != nil {
			continue
		}
		if v.Docstring() == "" {
			missing = append(missing, MissingDoc{Kind: v.FunType.String(), Name: name})
		}
	}
	return missing
}

// docstring extracts the docstring from an LBuiltinDef, returning ""
// if the definition does not implement the documented interface.
func docstring(defn lisp.LBuiltinDef) string {
	if doc, ok := defn.(lisp.LBuiltinDocDef); ok {
		return doc.Docstring()
	}
	return ""
}

// LoadPackage adds the help operators to env
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	for _, op := range ops {
		env.AddSpecialOps(op)
	}
	return lisp.Nil()
}

type helpOp struct {
	name    string
	formals *lisp.LVal
	fun     lisp.LBuiltin
	docs    string
}

func (op *helpOp) Name() string {
	return op.name
}

func (op *helpOp) Formals() *lisp.LVal {
	return op.formals
}

func (op *helpOp) Eval(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return op.fun(env, args)
}

func (op *helpOp) Docstring() string {
	return op.docs
}

var ops = []*helpOp{
	{"help", lisp.Formals("var-name"), opHelp,
		`
		Prints documentation for the given name, which is not evaluated.
		Functions, macros, and special operators have their signature and
		any docstring rendered.  Other variables have their types and
		current values printed.
		`},
	{"help-symbols", lisp.Formals(), opHelpSymbols,
		`
		Prints every function, macro, and special operator visible in the
		root environment along with the first line of its documentation.
		`},
}

func opHelp(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf(lisp.CondArityError, "help expected 1 args, got %d", len(args.Cells))
	}
	name := args.Cells[0]
	if name.Type != lisp.LSymbol {
		return env.ErrorConditionf(lisp.CondTypeError, "argument is not a symbol: %v", lisp.GetType(name))
	}
	if env.GetMacro(name) == nil {
		if v := env.Get(name); v.Type == lisp.LError {
			return v
		}
	}
	err := RenderVar(output(env), env, name.Str)
	if err != nil {
		return env.Error(err)
	}
	return lisp.Nil()
}

func opHelpSymbols(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	err := RenderSymbolList(output(env), env)
	if err != nil {
		return env.Error(err)
	}
	return lisp.Nil()
}

func output(env *lisp.LEnv) io.Writer {
	if env.Runtime.Stderr == nil {
		return os.Stderr
	}
	return env.Runtime.Stderr
}

// Names returns the sorted names of every macro, special operator, and root
// scope binding visible from env.
func Names(env *lisp.LEnv) []string {
	root := env
	for root.Parent != nil {
		root = root.Parent
	}
	seen := make(map[string]bool)
	var names []string
	for _, name := range env.Macros.Names() {
		seen[name] = true
		names = append(names, name)
	}
	for name := range root.Scope {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup returns the value of name as seen by the evaluator, macros first,
// or nil if name is not bound.
func Lookup(env *lisp.LEnv, name string) *lisp.LVal {
	if mac := env.Macros.Get(name); mac != nil {
		return mac
	}
	v, ok := env.Lookup(name)
	if !ok {
		return nil
	}
	return v
}

// Docstring returns the documentation for name in env.  The boolean result
// is false when name is not bound.
func Docstring(env *lisp.LEnv, name string) (string, bool) {
	v := Lookup(env, name)
	if v == nil {
		return "", false
	}
	return v.Docstring(), true
}

// Signature returns the call signature of fun when called as name, such as
// (map f coll).
func Signature(name string, fun *lisp.LVal) string {
	formals := fun.Formals()
	sig := make([]*lisp.LVal, 1+len(formals.Cells))
	sig[0] = lisp.Symbol(name)
	copy(sig[1:], formals.Cells)
	return lisp.List(sig).String()
}

// RenderSymbolList writes each documented name in env with the first line
// of its documentation.
func RenderSymbolList(w io.Writer, env *lisp.LEnv) error {
	for _, name := range Names(env) {
		v := Lookup(env, name)
		if v == nil || v.Type != lisp.LFun {
			continue
		}
		line := fmt.Sprintf("  %-16s %s", name, Kind(v))
		if doc := Dedent(v.Docstring()); doc != "" {
			line += "  " + strings.SplitN(doc, "\n", 2)[0]
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderVar writes to w formatted documentation for the object referenced by
// sym in the context of env.  The exact formatting of the rendered
// documentation is subject to change.
func RenderVar(w io.Writer, env *lisp.LEnv, sym string) error {
	if mac := env.Macros.Get(sym); mac != nil {
		return renderFun(w, sym, mac)
	}
	v := env.Get(lisp.Symbol(sym))
	err := lisp.GoError(v)
	if err != nil {
		return err
	}
	if v.Type != lisp.LFun {
		return renderVal(w, sym, v)
	}
	return renderFun(w, sym, v)
}

func renderVal(w io.Writer, sym string, v *lisp.LVal) error {
	_, err := fmt.Fprintf(w, "%v %s %v\n", lisp.GetType(v).Str, sym, v)
	return err
}

func renderFun(w io.Writer, sym string, v *lisp.LVal) error {
	_, err := fmt.Fprintf(w, "%s %s\n", Kind(v), Signature(sym, v))
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	doc := cleanDocstring(v.Docstring())
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
		return err
	}
	return nil
}

// Kind describes the kind of function v is: "special-op", "macro",
// "builtin", or "function".
func Kind(v *lisp.LVal) string {
	switch {
	case v.IsSpecialOp():
		return "special-op"
	case v.IsMacro():
		return "macro"
	case v.Builtin() != nil:
		return "builtin"
	default:
		return "function"
	}
}

// Dedent removes the common indentation of doc and surrounding blank space.
func Dedent(doc string) string {
	return strings.TrimSpace(dedentDoc(doc))
}

// CleanDocstring reflows doc for display in a terminal.
func CleanDocstring(doc string) string {
	return cleanDocstring(doc)
}

func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	if doc[0] == '\n' {
		doc = doc[1:]
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), 72), 2)
	doc = strings.TrimSuffix(doc, "\n")
	return doc
}

// dedentDoc removes common leading whitespace from all non-empty lines.
// The first line is ignored when computing the common indentation.  Tabs
// are normalized to spaces.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")

	minWS := -1
	start := 0
	if len(lines) > 1 {
		start = 1
	}
	for _, line := range lines[start:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	if minWS <= 0 {
		return strings.TrimLeft(lines[0], " ") + "\n" + strings.Join(lines[1:], "\n")
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		} else if len(lines[i]) >= minWS {
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
