// Copyright © 2024 The ELPS authors

package langserver

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	_, defs, _ := doc.snapshot()

	symbols := []protocol.DocumentSymbol{}
	for _, def := range defs {
		if def.Source == nil || def.Source.Line == 0 {
			continue
		}
		r := toLSPRange(def.Source, len(def.Name))
		var detail *string
		if sig := def.Signature(); sig != "" {
			detail = &sig
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           def.Name,
			Detail:         detail,
			Kind:           symbolKind(def.Kind),
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, defs, _ := doc.snapshot()
	name := wordAtPosition(content, int(params.Position.Line), int(params.Position.Character))
	def := findDefinition(defs, name)
	if def == nil || def.Source == nil || def.Source.Line == 0 {
		// Builtins and special ops have no navigable source.
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: toLSPRange(def.Source, len(def.Name)),
	}, nil
}

func symbolKind(kind string) protocol.SymbolKind {
	switch kind {
	case "function", "macro":
		return protocol.SymbolKindFunction
	default:
		return protocol.SymbolKindVariable
	}
}
