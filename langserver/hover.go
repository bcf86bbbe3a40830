// Copyright © 2024 The ELPS authors

package langserver

import (
	"fmt"
	"strings"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/lisplib/libhelp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, defs, _ := doc.snapshot()
	name := wordAtPosition(content, int(params.Position.Line), int(params.Position.Character))
	if name == "" {
		return nil, nil
	}

	var text string
	if def := findDefinition(defs, name); def != nil {
		text = definitionHover(def)
	} else if v := libhelp.Lookup(s.env, name); v != nil {
		text = envHover(name, v)
	}
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}, nil
}

// definitionHover builds Markdown hover text for a definition in an open
// document.
func definitionHover(def *definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", def.Kind, def.Name)
	if sig := def.Signature(); sig != "" {
		fmt.Fprintf(&sb, "\n\n```lisp\n%s\n```", sig)
	}
	if doc := libhelp.Dedent(def.Doc); doc != "" {
		fmt.Fprintf(&sb, "\n\n%s", doc)
	}
	if def.Source != nil && def.Source.Pos >= 0 {
		fmt.Fprintf(&sb, "\n\n*Defined at %s*", def.Source)
	}
	return sb.String()
}

// envHover builds Markdown hover text for a binding in the server's
// environment.
func envHover(name string, v *lisp.LVal) string {
	var sb strings.Builder
	if v.Type != lisp.LFun {
		fmt.Fprintf(&sb, "**%s** `%s`\n\n```lisp\n%v\n```", lisp.GetType(v).Str, name, v)
		return sb.String()
	}
	fmt.Fprintf(&sb, "**%s** `%s`", libhelp.Kind(v), name)
	fmt.Fprintf(&sb, "\n\n```lisp\n%s\n```", libhelp.Signature(name, v))
	if doc := libhelp.Dedent(v.Docstring()); doc != "" {
		fmt.Fprintf(&sb, "\n\n%s", doc)
	}
	return sb.String()
}
