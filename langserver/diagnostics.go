// Copyright © 2024 The ELPS authors

package langserver

import (
	"time"

	"github.com/luthersystems/lsp/diagnostic"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const debounceDelay = 300 * time.Millisecond

const diagnosticSource = "lsp"

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.publishDiagnostics(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		if d := s.docs.Get(doc.URI); d != nil {
			s.publishDiagnostics(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.publishDiagnostics(doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// publishDiagnostics reports the syntax error of doc, if any, to the client.
// A document without errors publishes an empty list to clear stale
// diagnostics.
func (s *Server) publishDiagnostics(doc *Document) {
	_, _, parseErr := doc.snapshot()
	diags := []protocol.Diagnostic{}
	if parseErr != nil {
		diags = append(diags, convertDiagnostic(diagnostic.FromError(parseErr)))
	}
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
}

// convertDiagnostic converts a diagnostic.Diagnostic to an LSP Diagnostic
// covering its primary span.
func convertDiagnostic(d diagnostic.Diagnostic) protocol.Diagnostic {
	var r protocol.Range
	if len(d.Spans) > 0 {
		span := d.Spans[0]
		width := 1
		if span.EndCol > span.Col {
			width = span.EndCol - span.Col
		}
		start := protocol.Position{Line: safeUint(span.Line - 1), Character: safeUint(span.Col - 1)}
		r = protocol.Range{
			Start: start,
			End:   protocol.Position{Line: start.Line, Character: start.Character + safeUint(width)},
		}
	}
	sev := protocol.DiagnosticSeverityError
	if d.Severity == diagnostic.SeverityWarning {
		sev = protocol.DiagnosticSeverityWarning
	}
	diag := protocol.Diagnostic{
		Range:    r,
		Severity: &sev,
		Source:   strPtr(diagnosticSource),
		Message:  d.Message,
	}
	if d.Condition != "" {
		diag.Code = &protocol.IntegerOrString{Value: d.Condition}
	}
	return diag
}

func strPtr(s string) *string {
	return &s
}
