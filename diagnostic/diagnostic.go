// Copyright © 2024 The ELPS authors

// Package diagnostic renders interpreter and reader errors as annotated
// source snippets for the command line, and converts them into the spans
// used by editor integrations.
package diagnostic

import (
	"errors"
	"fmt"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/parser/token"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // name displayed for the source
	Path   string // path for reading source; File is used when empty
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

func (s Span) path() string {
	if s.Path != "" {
		return s.Path
	}
	return s.File
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	// Condition is the lisp condition of an error, such as syntax-error.
	Condition string
	Message   string
	Spans     []Span
	Notes     []string // "= note:" lines (stack trace frames, etc.)
}

// FromError converts err to a Diagnostic.  Lisp errors and reader errors
// produce a span at the location of the error and lisp errors add a note
// for each frame of their call stack.  Other errors produce a diagnostic
// with only a message.
func FromError(err error) Diagnostic {
	var lerr *lisp.ErrorVal
	if errors.As(err, &lerr) {
		return FromLisp((*lisp.LVal)(lerr))
	}
	var serr lisp.SourceError
	if errors.As(err, &serr) {
		d := Diagnostic{
			Severity:  SeverityError,
			Condition: serr.Condition(),
			Message:   fmt.Sprintf("%s: %s", serr.Condition(), serr.Message()),
		}
		if span, ok := spanAt(serr.Location()); ok {
			d.Spans = append(d.Spans, span)
		}
		return d
	}
	return Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
	}
}

// FromLisp converts an LError value to a Diagnostic.
func FromLisp(lerr *lisp.LVal) Diagnostic {
	ev := (*lisp.ErrorVal)(lerr)
	d := Diagnostic{
		Severity:  SeverityError,
		Condition: ev.Condition(),
		Message:   ev.ErrorMessage(),
	}
	if fname := ev.FunName(); fname != "" && ev.Condition() == lisp.CondError {
		d.Message = fname + ": " + d.Message
	}
	if ev.Condition() != lisp.CondError {
		d.Message = ev.Condition() + ": " + d.Message
	}
	if span, ok := spanAt(lerr.Source); ok {
		d.Spans = append(d.Spans, span)
	}
	stack := lerr.CallStack()
	if stack == nil {
		return d
	}
	for i := len(stack.Frames) - 1; i >= 0; i-- {
		frame := &stack.Frames[i]
		name := frame.FunName()
		if name == "" {
			continue
		}
		loc := "unknown"
		if frame.Source != nil {
			loc = frame.Source.String()
		}
		d.Notes = append(d.Notes, "in "+name+" at "+loc)
	}
	return d
}

func spanAt(loc *token.Location) (Span, bool) {
	if loc == nil || loc.Pos < 0 {
		return Span{}, false
	}
	return Span{
		File: loc.File,
		Path: loc.Path,
		Line: loc.Line,
		Col:  loc.Col,
	}, true
}
