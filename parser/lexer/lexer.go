// Copyright © 2018 The ELPS authors

// Package lexer splits source text into a flat sequence of tokens.  Comments
// and commas are discarded.  Delimiters and reader macro characters are
// always tokens of their own, even when written adjacent to other text.
package lexer

import (
	"sort"

	"github.com/luthersystems/lsp/parser/token"
	parsec "github.com/prataprc/goparsec"
)

// Patterns are matched at the scanner cursor in the order they appear in
// readToken.
const (
	patternSpace      = `^[\s,]+`
	patternComment    = `^;[^\n]*`
	patternUnquoteSpl = `^~@`
	patternChar       = "^[()\\[\\]{}'`~]"
	patternString     = `^"(?:[^"\\]|\\.)*"`
	patternAtom       = "^[^\\s,;()\\[\\]{}'`~\"]+"
	// patternOpenString matches the remainder of an unterminated string
	// literal so that the parser can report it.
	patternOpenString = `^"[^\n]*`
)

// Lex returns the token text found in text.  Lex never fails; malformed
// input is reported by the parser.
func Lex(text string) []string {
	toks := Scan("", text)
	words := make([]string, len(toks))
	for i := range toks {
		words[i] = toks[i].Text
	}
	return words
}

// Scan returns the tokens found in text annotated with their location.  The
// name is used as the File for each token location.  The returned slice does
// not contain an EOF token.
func Scan(name string, text string) []*token.Token {
	lex := New(name, []byte(text))
	var toks []*token.Token
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// Lexer reads tokens from a byte buffer one at a time.
type Lexer struct {
	name  string
	s     parsec.Scanner
	lines []int // byte offsets at which each line begins
}

// New returns a Lexer that reads tokens from src.
func New(name string, src []byte) *Lexer {
	lines := []int{0}
	for i, c := range src {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Lexer{
		name:  name,
		s:     parsec.NewScanner(src),
		lines: lines,
	}
}

// ReadToken returns the next token in the source.  When the source is
// exhausted ReadToken returns a token with type token.EOF.
func (lex *Lexer) ReadToken() *token.Token {
	lex.skipIgnored()
	pos := lex.s.GetCursor()
	if lex.s.Endof() {
		return &token.Token{Type: token.EOF, Source: lex.location(pos)}
	}
	for _, pattern := range []string{
		patternUnquoteSpl,
		patternChar,
		patternString,
		patternAtom,
		patternOpenString,
	} {
		text, ok := lex.match(pattern)
		if ok {
			return &token.Token{
				Type:   token.TypeOf(text),
				Text:   text,
				Source: lex.location(pos),
			}
		}
	}
	// Every byte is matched by one of the patterns above.
	panic("lexer: unable to match input")
}

// skipIgnored advances the scanner past any whitespace, commas, and
// comments.  A comment is terminated by the newline following it, which is
// itself skipped as whitespace.
func (lex *Lexer) skipIgnored() {
	for {
		_, space := lex.match(patternSpace)
		_, comment := lex.match(patternComment)
		if !space && !comment {
			return
		}
	}
}

func (lex *Lexer) match(pattern string) (string, bool) {
	b, next := lex.s.Match(pattern)
	if len(b) == 0 {
		return "", false
	}
	lex.s = next
	return string(b), true
}

func (lex *Lexer) location(pos int) *token.Location {
	line := sort.Search(len(lex.lines), func(i int) bool {
		return lex.lines[i] > pos
	})
	return &token.Location{
		File: lex.name,
		Pos:  pos,
		Line: line,
		Col:  pos - lex.lines[line-1] + 1,
	}
}
