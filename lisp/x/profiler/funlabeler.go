package profiler

import (
	"regexp"
	"strings"

	"github.com/luthersystems/lsp/lisp"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(runtime *lisp.Runtime, fun *lisp.LVal) string

// WithDocLabeler labels spans using docstring magic strings of the form
// @trace{label}.
func WithDocLabeler() Option {
	return WithFunLabeler(docFunLabeler)
}

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// DocLabel is a magic string used to extract function labels.
const DocLabel = `@trace\s*{([^}]+)}`

var (
	docLabelRegExp   = regexp.MustCompile(DocLabel)
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")
	return validLabelRegExp.FindString(userLabel)
}

func extractLabel(docStr string) string {
	m := docLabelRegExp.FindStringSubmatch(docStr)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func cleanLabel(docStr string) string {
	return sanitizeLabel(extractLabel(docStr))
}

func docFunLabeler(runtime *lisp.Runtime, fun *lisp.LVal) string {
	return cleanLabel(fun.Docstring())
}
