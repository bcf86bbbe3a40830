// Copyright © 2024 The ELPS authors

package langserver

import (
	"strings"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/lisplib/libhelp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, defs, _ := doc.snapshot()
	prefix := prefixAtPosition(content, int(params.Position.Line), int(params.Position.Character))

	seen := make(map[string]bool)
	items := []protocol.CompletionItem{}
	for _, def := range defs {
		if seen[def.Name] || !strings.HasPrefix(def.Name, prefix) {
			continue
		}
		seen[def.Name] = true
		kind := definitionCompletionKind(def.Kind)
		item := protocol.CompletionItem{
			Label: def.Name,
			Kind:  &kind,
		}
		if sig := def.Signature(); sig != "" {
			item.Detail = &sig
		}
		if d := libhelp.Dedent(def.Doc); d != "" {
			item.Documentation = &protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: d}
		}
		items = append(items, item)
	}
	for _, name := range libhelp.Names(s.env) {
		if seen[name] || !strings.HasPrefix(name, prefix) {
			continue
		}
		seen[name] = true
		v := libhelp.Lookup(s.env, name)
		if v == nil {
			continue
		}
		items = append(items, envCompletion(name, v))
	}
	return items, nil
}

func envCompletion(name string, v *lisp.LVal) protocol.CompletionItem {
	kind := protocol.CompletionItemKindVariable
	item := protocol.CompletionItem{Label: name}
	if v.Type == lisp.LFun {
		switch libhelp.Kind(v) {
		case "special-op", "macro":
			kind = protocol.CompletionItemKindKeyword
		default:
			kind = protocol.CompletionItemKindFunction
		}
		sig := libhelp.Signature(name, v)
		item.Detail = &sig
		if d := libhelp.Dedent(v.Docstring()); d != "" {
			item.Documentation = &protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: d}
		}
	}
	item.Kind = &kind
	return item
}

func definitionCompletionKind(kind string) protocol.CompletionItemKind {
	switch kind {
	case "function":
		return protocol.CompletionItemKindFunction
	case "macro":
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindVariable
	}
}
