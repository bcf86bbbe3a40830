// Copyright © 2018 The ELPS authors

package token

import "fmt"

// Token is a single lexeme read from source text.
type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	if tok.Source != nil {
		return fmt.Sprintf("%s %s %q", tok.Source, tok.Type, tok.Text)
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

type Type uint

// Type constants used by the lexer and parser.
const (
	INVALID Type = iota
	EOF

	// ATOM tokens are classified by the parser (integer, rational, boolean,
	// nil, string, or symbol).
	ATOM

	// Reader macros
	QUOTE
	QUASIQUOTE
	UNQUOTE
	UNQUOTE_SPLICING

	// Delimiters
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R
	BRACE_L
	BRACE_R

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID:          "invalid",
	EOF:              "EOF",
	ATOM:             "atom",
	QUOTE:            "'",
	QUASIQUOTE:       "`",
	UNQUOTE:          "~",
	UNQUOTE_SPLICING: "~@",
	PAREN_L:          "(",
	PAREN_R:          ")",
	BRACKET_L:        "[",
	BRACKET_R:        "]",
	BRACE_L:          "{",
	BRACE_R:          "}",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// TypeOf returns the Type of a raw token string.  Any text which is not a
// delimiter or reader macro is an ATOM.
func TypeOf(text string) Type {
	switch text {
	case "":
		return INVALID
	case "'":
		return QUOTE
	case "`":
		return QUASIQUOTE
	case "~":
		return UNQUOTE
	case "~@":
		return UNQUOTE_SPLICING
	case "(":
		return PAREN_L
	case ")":
		return PAREN_R
	case "[":
		return BRACKET_L
	case "]":
		return BRACKET_R
	case "{":
		return BRACE_L
	case "}":
		return BRACE_R
	}
	return ATOM
}

// IsOpen returns true if typ begins a collection.
func (typ Type) IsOpen() bool {
	return typ == PAREN_L || typ == BRACKET_L || typ == BRACE_L
}

// IsClose returns true if typ terminates a collection.
func (typ Type) IsClose() bool {
	return typ == PAREN_R || typ == BRACKET_R || typ == BRACE_R
}

// IsQuote returns true if typ is a reader macro that wraps the following
// expression.
func (typ Type) IsQuote() bool {
	switch typ {
	case QUOTE, QUASIQUOTE, UNQUOTE, UNQUOTE_SPLICING:
		return true
	}
	return false
}

// Closer returns the delimiter type which terminates a collection opened by
// typ.  Closer returns INVALID when typ does not open a collection.
func (typ Type) Closer() Type {
	switch typ {
	case PAREN_L:
		return PAREN_R
	case BRACKET_L:
		return BRACKET_R
	case BRACE_L:
		return BRACE_R
	}
	return INVALID
}

type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}
