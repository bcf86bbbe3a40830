// Copyright © 2024 The ELPS authors

package lisp

// Error condition names.  These are stable API for programmatic error
// classification in tooling integrations.
const (
	CondError          = "error"
	CondSyntaxError    = "syntax-error"
	CondUnboundSymbol  = "unbound-symbol"
	CondArityError     = "arity-error"
	CondTypeError      = "type-error"
	CondDivisionByZero = "division-by-zero"
	CondStackOverflow  = "stack-overflow"
)
