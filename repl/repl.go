// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/lsp/diagnostic"
	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lsputil"
	"github.com/luthersystems/lsp/parser/rdparser"
)

// SourceName is the name given to expressions read by the REPL.
const SourceName = "<stdin>"

// HistoryFileName is the name of the history file in the user's home
// directory.
const HistoryFileName = ".lsp_history"

type config struct {
	stdin      io.ReadCloser
	stderr     io.WriteCloser
	color      diagnostic.ColorMode
	history    string
	historySet bool
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithColor sets the color mode used to render errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithHistoryFile sets the file used to persist input history.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
		c.historySet = true
	}
}

// RunRepl runs a simple repl in a standard environment.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	var envOpts []lisp.Config
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	env, err := lsputil.NewEnv(envOpts...)
	if err != nil {
		errlnf("Language initialization failure: %v", err)
		os.Exit(1)
	}
	RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as a root environment.  The cont
// prompt is displayed while an incomplete expression is being read.
func RunEnv(env *lisp.LEnv, prompt, cont string, opts ...Option) {
	if env.Parent != nil {
		errlnf("REPL environment is not a root environment.")
		os.Exit(1)
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	out := env.Runtime.Stderr
	if out == nil {
		out = os.Stderr
	}
	history := historyPath()
	if cfg.historySet {
		history = cfg.history
	}
	ensureHistoryFilePermissions(history)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	r := &repl{
		env:      env,
		out:      out,
		renderer: &diagnostic.Renderer{Color: cfg.color},
	}
	for {
		if r.pending() {
			rl.SetPrompt(cont)
		} else {
			rl.SetPrompt(prompt)
		}
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			r.reset()
			continue
		}
		if err != nil {
			break
		}
		r.input(line)
	}
	if r.pending() {
		// Evaluate whatever remains so that errors in it are reported.
		r.flush()
	}
}

// repl accumulates lines of input until they form complete expressions.
type repl struct {
	env      *lisp.LEnv
	out      io.Writer
	renderer *diagnostic.Renderer
	buf      strings.Builder
}

func (r *repl) pending() bool {
	return strings.TrimSpace(r.buf.String()) != ""
}

func (r *repl) reset() {
	r.buf.Reset()
}

// input adds line to the pending input and evaluates it once it contains
// only complete expressions.
func (r *repl) input(line string) {
	if !r.pending() && strings.TrimSpace(line) == "" {
		return
	}
	r.buf.WriteString(line)
	r.buf.WriteString("\n")
	exprs, err := r.read()
	if rdparser.IsIncomplete(err) {
		return
	}
	r.eval(exprs, err)
}

// flush evaluates pending input even if it is incomplete.
func (r *repl) flush() {
	r.eval(r.read())
}

func (r *repl) read() ([]*lisp.LVal, error) {
	return r.env.Runtime.Reader.Read(SourceName, strings.NewReader(r.buf.String()))
}

func (r *repl) eval(exprs []*lisp.LVal, err error) {
	r.renderer.AddSource(SourceName, r.buf.String())
	r.reset()
	if err != nil {
		_ = r.renderer.RenderError(r.out, err)
		return
	}
	for _, expr := range exprs {
		val := r.env.Eval(expr)
		if val.Type == lisp.LError {
			r.renderError(val)
			return
		}
		fmt.Fprintln(r.out, val) //nolint:errcheck // best-effort REPL output
	}
}

func (r *repl) renderError(lerr *lisp.LVal) {
	d := diagnostic.FromLisp(lerr)
	if d.Condition == lisp.CondUnboundSymbol {
		d.Notes = append(d.Notes, "use (help-symbols) to list available symbols")
	}
	_ = r.renderer.Render(r.out, d)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFileName)
}

// ensureHistoryFilePermissions creates the history file if necessary and
// makes it readable only by its owner.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
