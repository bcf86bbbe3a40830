// Copyright © 2018 The ELPS authors

package lisp

// TrueSymbol is the literal for the boolean true.
const TrueSymbol = "true"

// FalseSymbol is the literal for the boolean false.
const FalseSymbol = "false"

// NilSymbol is the literal for nil.
const NilSymbol = "nil"

// VarArgSymbol is the symbol that indicates a variadic function argument in a
// function's list of formal arguments.  It must be followed by exactly one
// symbol, which is bound to a list of the surplus arguments.
const VarArgSymbol = "&"

// Reader macro symbols.  The reader expands 'x, `x, ~x and ~@x into lists
// headed by these symbols.
const (
	QuoteSymbol           = "quote"
	QuasiquoteSymbol      = "quasiquote"
	UnquoteSymbol         = "unquote"
	UnquoteSplicingSymbol = "unquote-splicing"
)
