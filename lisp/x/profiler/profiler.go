// Package profiler contains lisp.Profiler implementations which record the
// function calls made by an environment as callgrind files, pprof labels, or
// tracing spans.
package profiler

import (
	"errors"
	"regexp"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/parser/token"
)

// profiler holds the state and options shared by every implementation.
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(fun *lisp.LVal) func() {
	return func() {}
}

// AnonymousFunName is the label given to functions created by fn without a
// name.
const AnonymousFunName = "fn"

var builtinRegex = regexp.MustCompile("<builtin-[a-z]+ ``(.*)''>")

// FunName returns a name for fun suitable for viewing in trace and profile
// tools.
func FunName(fun *lisp.LVal) string {
	if fun.Type != lisp.LFun {
		return ""
	}
	if fun.Str != "" {
		return fun.Str
	}
	if m := builtinRegex.FindStringSubmatch(fun.FID()); m != nil {
		return m[1]
	}
	return AnonymousFunName
}

// prettyFunName returns a pretty name and original name for a fun. If there is
// no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(fun *lisp.LVal) (string, string) {
	origLabel := FunName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(p.runtime, fun)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *lisp.LVal) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}

// getSourceLoc returns the location where fun was defined or nil if fun
// was not defined in source text.
func getSourceLoc(fun *lisp.LVal) *token.Location {
	if fun.Source != nil && fun.Source.Pos >= 0 {
		return fun.Source
	}
	if fun.Builtin() == nil && len(fun.Cells) > 0 {
		if src := fun.Cells[0].Source; src != nil && src.Pos >= 0 {
			return src
		}
	}
	return nil
}
