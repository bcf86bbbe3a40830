// Copyright © 2018 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/lsp/parser/token"
)

// TokenStream is an arbitrary sequence of tokens.  Typically, a TokenStream
// will be a *lexer.Lexer but other implementations may be useful when tokens
// have already been produced.  When no more tokens can be generated
// ReadToken returns a token with type token.EOF.
type TokenStream interface {
	ReadToken() *token.Token
}

// TokenGenerator implements TokenStream.  The function will be called any time
// a TokenSource wants a token.
type TokenGenerator func() *token.Token

// ReadToken implements TokenStream.
func (fn TokenGenerator) ReadToken() *token.Token {
	return fn()
}

// TokenSlice returns a TokenStream that pops tokens from the front of toks.
// Once toks is empty the stream returns EOF tokens located just past the
// last token read.
func TokenSlice(toks *[]*token.Token) TokenStream {
	pos := &token.Location{Pos: -1}
	return TokenGenerator(func() *token.Token {
		if len(*toks) == 0 {
			return &token.Token{Type: token.EOF, Source: pos}
		}
		tok := (*toks)[0]
		*toks = (*toks)[1:]
		if tok.Source != nil {
			pos = tok.Source
		}
		return tok
	})
}

// TokenSource abstracts a TokenStream by adding one token of lookahead.
type TokenSource struct {
	lex   TokenStream
	path  string
	Token *token.Token
	peek  *token.Token
}

// NewTokenSource returns a TokenSource reading from stream.
func NewTokenSource(stream TokenStream) *TokenSource {
	return &TokenSource{
		lex: stream,
	}
}

// SetPath sets the physical path recorded in the location of each token
// scanned.
func (s *TokenSource) SetPath(path string) {
	s.path = path
}

func (s *TokenSource) Peek() *token.Token {
	if s.peek != nil {
		return s.peek
	}
	s.peek = s.lex.ReadToken()
	if s.path != "" && s.peek.Source != nil {
		loc := *s.peek.Source
		loc.Path = s.path
		s.peek.Source = &loc
	}
	return s.peek
}

func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.Token = s.Peek()
	s.peek = nil
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}
