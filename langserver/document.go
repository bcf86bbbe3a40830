// Copyright © 2024 The ELPS authors

package langserver

import (
	"errors"
	"io"
	"sync"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/parser/lexer"
	"github.com/luthersystems/lsp/parser/rdparser"
)

// Document represents an open text document tracked by the server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string

	// ast holds the expressions preceding the first syntax error.
	ast      []*lisp.LVal
	defs     []*definition
	parseErr error
}

// parse parses the document content, keeping every expression that was read
// before a syntax error.
func (d *Document) parse() {
	src := rdparser.NewTokenSource(lexer.New(uriToPath(d.URI), []byte(d.Content)))
	p := rdparser.NewFromSource(src)
	d.ast = nil
	d.parseErr = nil
	for {
		expr, err := p.Parse()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.parseErr = err
			}
			break
		}
		d.ast = append(d.ast, expr)
	}
	d.defs = collectDefinitions(d.ast)
}

// snapshot returns the parse results under the document lock.
func (d *Document) snapshot() (content string, defs []*definition, parseErr error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Content, d.defs, d.parseErr
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}
