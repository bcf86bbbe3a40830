// Copyright © 2018 The ELPS authors

// Package rdparser is a recursive descent parser which builds lisp values
// from the tokens produced by package lexer.
package rdparser

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/parser/lexer"
	"github.com/luthersystems/lsp/parser/token"
)

var (
	intPattern      = regexp.MustCompile(`^[+-]?[0-9]+$`)
	rationalPattern = regexp.MustCompile(`^[+-]?[0-9]+/[+-]?[0-9]+$`)
)

// SyntaxError is returned when source text cannot be parsed.
type SyntaxError struct {
	Msg    string
	Source *token.Location
	// Incomplete is true when the error was caused by input ending in the
	// middle of an expression.  More input could make the source valid.
	Incomplete bool
}

func (err *SyntaxError) Error() string {
	if err.Source == nil || err.Source.Pos < 0 && err.Source.File == "" {
		return fmt.Sprintf("%s: %s", lisp.CondSyntaxError, err.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", err.Source, lisp.CondSyntaxError, err.Msg)
}

// Condition returns the condition type of lisp errors created from err.
func (err *SyntaxError) Condition() string {
	return lisp.CondSyntaxError
}

// Location returns the location of the offending token.
func (err *SyntaxError) Location() *token.Location {
	return err.Source
}

// Message returns the error message without location information.
func (err *SyntaxError) Message() string {
	return err.Msg
}

// IsIncomplete returns true if err was caused by source text ending before
// an expression was complete.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	return errors.As(err, &serr) && serr.Incomplete
}

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	return read(name, "", r)
}

// ReadLocation implements lisp.LocationReader.
func (*reader) ReadLocation(name string, loc string, r io.Reader) ([]*lisp.LVal, error) {
	return read(name, loc, r)
}

func read(name string, loc string, r io.Reader) ([]*lisp.LVal, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := NewTokenSource(lexer.New(name, src))
	s.SetPath(loc)
	return NewFromSource(s).ParseProgram()
}

// Read parses the first expression in text.
func Read(text string) (*lisp.LVal, error) {
	words := lexer.Lex(text)
	return Parse(&words)
}

// Parse pops a single expression off the front of words.  Words are
// typically produced by lexer.Lex and parsed values carry no location.
func Parse(words *[]string) (*lisp.LVal, error) {
	toks := make([]*token.Token, len(*words))
	for i, w := range *words {
		toks[i] = &token.Token{Type: token.TypeOf(w), Text: w}
	}
	v, err := ParseTokens(&toks)
	*words = (*words)[len(*words)-len(toks):]
	return v, err
}

// ParseTokens pops a single expression off the front of toks.
func ParseTokens(toks *[]*token.Token) (*lisp.LVal, error) {
	p := NewFromSource(NewTokenSource(TokenSlice(toks)))
	return p.ParseExpression()
}

// Parser is a lisp parser.
type Parser struct {
	src *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from stream.
func New(stream TokenStream) *Parser {
	return NewFromSource(NewTokenSource(stream))
}

// Parse is similar to ParseExpression but returns io.EOF when the token
// stream is exhausted before an expression begins.
func (p *Parser) Parse() (*lisp.LVal, error) {
	if p.src.IsEOF() {
		return nil, io.EOF
	}
	return p.ParseExpression()
}

// ParseProgram parses every expression remaining in the token stream.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			return exprs, nil
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present in the input stream and will report
// unexpected EOF tokens encountered.
func (p *Parser) ParseExpression() (*lisp.LVal, error) {
	if !p.src.Scan() {
		return nil, p.incomplete("unexpected end of input")
	}
	tok := p.src.Token
	switch {
	case tok.Type.IsQuote():
		return p.parseQuote(tok)
	case tok.Type.IsOpen():
		return p.parseCollection(tok)
	case tok.Type.IsClose():
		return nil, p.errorf(tok, "unexpected '%s'", tok.Text)
	case tok.Type == token.ATOM:
		return p.parseAtom(tok)
	default:
		return nil, p.errorf(tok, "unexpected token: %s", tok.Text)
	}
}

func (p *Parser) parseQuote(tok *token.Token) (*lisp.LVal, error) {
	var op string
	switch tok.Type {
	case token.QUOTE:
		op = lisp.QuoteSymbol
	case token.QUASIQUOTE:
		op = lisp.QuasiquoteSymbol
	case token.UNQUOTE:
		op = lisp.UnquoteSymbol
	case token.UNQUOTE_SPLICING:
		op = lisp.UnquoteSplicingSymbol
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	sym := lisp.Symbol(op)
	sym.Source = tok.Source
	v := lisp.List([]*lisp.LVal{sym, expr})
	v.Source = tok.Source
	return v, nil
}

func (p *Parser) parseCollection(open *token.Token) (*lisp.LVal, error) {
	closer := open.Type.Closer()
	var cells []*lisp.LVal
	for {
		next := p.src.Peek()
		if next.Type == token.EOF {
			return nil, p.incomplete(fmt.Sprintf("expected '%s'", closer))
		}
		if next.Type == closer {
			p.src.Scan()
			break
		}
		if next.Type.IsClose() {
			p.src.Scan()
			return nil, p.errorf(next, "unexpected '%s'", next.Text)
		}
		v, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		cells = append(cells, v)
	}
	var v *lisp.LVal
	switch open.Type {
	case token.BRACKET_L:
		v = lisp.Vector(cells)
	case token.BRACE_L:
		v = lisp.Map(cells)
	default:
		v = lisp.List(cells)
	}
	v.Source = open.Source
	return v, nil
}

func (p *Parser) parseAtom(tok *token.Token) (*lisp.LVal, error) {
	v, err := p.atomValue(tok)
	if err != nil {
		return nil, err
	}
	if v.Type != lisp.LNil && v.Type != lisp.LBool {
		v.Source = tok.Source
	}
	return v, nil
}

func (p *Parser) atomValue(tok *token.Token) (*lisp.LVal, error) {
	text := tok.Text
	switch {
	case intPattern.MatchString(text):
		x, err := strconv.Atoi(text)
		if err != nil {
			return nil, p.errorf(tok, "integer literal out of range: %s", text)
		}
		return lisp.Int(x), nil
	case rationalPattern.MatchString(text):
		x, ok := new(big.Rat).SetString(text)
		if !ok {
			return nil, p.errorf(tok, "invalid rational literal: %s", text)
		}
		return lisp.Rational(x), nil
	case text == lisp.TrueSymbol:
		return lisp.Bool(true), nil
	case text == lisp.FalseSymbol:
		return lisp.Bool(false), nil
	case text == lisp.NilSymbol:
		return lisp.Nil(), nil
	case strings.HasPrefix(text, `"`):
		if len(text) < 2 || !strings.HasSuffix(text, `"`) {
			return nil, p.incompleteAt(tok, "unterminated string literal")
		}
		s, err := unquote(text[1 : len(text)-1])
		if err != nil {
			return nil, p.errorf(tok, "invalid string literal: %s", text)
		}
		return lisp.String(s), nil
	default:
		return lisp.Symbol(text), nil
	}
}

func (p *Parser) errorf(tok *token.Token, format string, v ...interface{}) error {
	return &SyntaxError{
		Msg:    fmt.Sprintf(format, v...),
		Source: tok.Source,
	}
}

func (p *Parser) incomplete(msg string) error {
	return p.incompleteAt(p.src.Peek(), msg)
}

func (p *Parser) incompleteAt(tok *token.Token, msg string) error {
	return &SyntaxError{
		Msg:        msg,
		Source:     tok.Source,
		Incomplete: true,
	}
}

// unquote decodes the body of a string literal.  Escapes follow Go string
// literal rules and literal line breaks are kept.
func unquote(body string) (string, error) {
	var buf []byte
	for len(body) > 0 {
		r, multibyte, tail, err := strconv.UnquoteChar(body, '"')
		if err != nil {
			return "", err
		}
		if r < utf8.RuneSelf || !multibyte {
			buf = append(buf, byte(r))
		} else {
			buf = utf8.AppendRune(buf, r)
		}
		body = tail
	}
	return string(buf), nil
}
