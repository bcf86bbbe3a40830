// Copyright © 2024 The ELPS authors

package langserver

import (
	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/parser/token"
)

// definition is a top-level binding made by a document.
type definition struct {
	Name string
	// Kind is "function", "macro", or "variable".
	Kind    string
	Source  *token.Location
	Formals *lisp.LVal
	Doc     string
}

// Signature returns the call signature of a function or macro definition,
// or the empty string for a variable.
func (d *definition) Signature() string {
	if d.Formals == nil {
		return ""
	}
	sig := make([]*lisp.LVal, 1+len(d.Formals.Cells))
	sig[0] = lisp.Symbol(d.Name)
	copy(sig[1:], d.Formals.Cells)
	return lisp.List(sig).String()
}

// collectDefinitions finds the def, defn, and defmacro forms at the top
// level of ast, including those nested in top-level do forms.
func collectDefinitions(ast []*lisp.LVal) []*definition {
	var defs []*definition
	for _, expr := range ast {
		if !isForm(expr) {
			continue
		}
		switch expr.Cells[0].Str {
		case "do":
			defs = append(defs, collectDefinitions(expr.Cells[1:])...)
		case "defn", "defmacro":
			if d := functionDefinition(expr.Cells[0].Str, expr.Cells[1:]); d != nil {
				defs = append(defs, d)
			}
		case "def":
			if d := varDefinition(expr.Cells[1:]); d != nil {
				defs = append(defs, d)
			}
		}
	}
	return defs
}

func isForm(expr *lisp.LVal) bool {
	return expr.Type == lisp.LList && len(expr.Cells) > 0 && expr.Cells[0].Type == lisp.LSymbol
}

// functionDefinition handles (defn name formals body...) and
// (defmacro name formals body...).
func functionDefinition(op string, args []*lisp.LVal) *definition {
	if len(args) < 2 || args[0].Type != lisp.LSymbol || args[1].Type != lisp.LList {
		return nil
	}
	kind := "function"
	if op == "defmacro" {
		kind = "macro"
	}
	return &definition{
		Name:    args[0].Str,
		Kind:    kind,
		Source:  args[0].Source,
		Formals: args[1],
		Doc:     bodyDocstring(args[2:]),
	}
}

// varDefinition handles (def name expr).  When expr is a fn form the
// definition is a function.
func varDefinition(args []*lisp.LVal) *definition {
	if len(args) != 2 || args[0].Type != lisp.LSymbol {
		return nil
	}
	d := &definition{
		Name:   args[0].Str,
		Kind:   "variable",
		Source: args[0].Source,
	}
	val := args[1]
	if !isForm(val) || val.Cells[0].Str != "fn" {
		return d
	}
	spec := val.Cells[1:]
	if len(spec) > 0 && spec[0].Type == lisp.LSymbol {
		spec = spec[1:]
	}
	if len(spec) == 0 || spec[0].Type != lisp.LList {
		return d
	}
	d.Kind = "function"
	d.Formals = spec[0]
	d.Doc = bodyDocstring(spec[1:])
	return d
}

// bodyDocstring returns the leading string of a function body when the
// string is followed by at least one more expression.
func bodyDocstring(body []*lisp.LVal) string {
	if len(body) > 1 && body[0].Type == lisp.LString {
		return body[0].Str
	}
	return ""
}

// findDefinition returns the last definition of name in defs, or nil.
func findDefinition(defs []*definition, name string) *definition {
	for i := len(defs) - 1; i >= 0; i-- {
		if defs[i].Name == name {
			return defs[i]
		}
	}
	return nil
}
