package profiler

import (
	"regexp"

	"github.com/luthersystems/lsp/lisp"
)

type SkipFilter func(fun *lisp.LVal) bool

func defaultSkipFilter(fun *lisp.LVal) bool {
	return fun.Type != lisp.LFun
}

// WithDocFilter filters to only include spans for functions with docstrings
// that denote tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithoutBuiltins skips functions implemented in Go.
func WithoutBuiltins() Option {
	return WithSkipFilter(func(fun *lisp.LVal) bool {
		return fun.Builtin() != nil
	})
}

// DocTrace is a magic string used to enable tracing in a profiler configured
// WithDocFilter. All functions with a docstring that contains this string
// will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(fun *lisp.LVal) bool {
	docStr := fun.Docstring()
	if docStr == "" {
		return true
	}
	return !docTraceRegExp.MatchString(docStr)
}
