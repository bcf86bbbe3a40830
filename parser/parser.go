// Copyright © 2018 The ELPS authors

// Package parser provides the default lisp.Reader.
package parser

import (
	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/parser/rdparser"
)

// NewReader returns a new lisp.Reader
func NewReader() lisp.Reader {
	return rdparser.NewReader()
}

// Read parses the first expression in text.
func Read(text string) (*lisp.LVal, error) {
	return rdparser.Read(text)
}
