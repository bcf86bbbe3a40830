// Copyright © 2018 The ELPS authors

// Package elpstest runs table driven and file based tests of lisp programs.
package elpstest

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/lisplib"
	"github.com/luthersystems/lsp/parser"
)

// MaxPhysicalStackHeight bounds the call stack of test environments.
const MaxPhysicalStackHeight = 25000

func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// Runner is a test runner for lisp source files.  Each file is evaluated in
// a fresh environment and the test fails if evaluation produces an error.
// Files typically make assertions by calling the error builtin.
type Runner struct {
	// Loader is the package loader used to initialize the test environment.
	// When Loader is nil lisplib.LoadLibrary is used.
	Loader func(*lisp.LEnv) *lisp.LVal

	// Teardown runs code to teardown an environment after each test file has
	// been evaluated.  Any error returned by the teardown function is
	// reported as a test failure.
	Teardown func(*lisp.LEnv) *lisp.LVal
}

// NewEnv returns a standard environment whose stderr is written to the test
// log.
func (r *Runner) NewEnv(t testing.TB) (*lisp.LEnv, error) {
	logger := NewLogger(t)
	runtime := &lisp.Runtime{
		Stack:  &lisp.CallStack{},
		Reader: parser.NewReader(),
		Stderr: logger,
		Stdout: logger,
		Stdin:  strings.NewReader(""),
	}
	env := lisp.NewEnvRuntime(runtime)
	err := lisp.GoError(lisp.InitializeUserEnv(env,
		lisp.WithMaximumPhysicalStackHeight(MaxPhysicalStackHeight),
		lisp.WithExit(func(code int) {
			t.Errorf("exit called with code %d", code)
		}),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lisp environment: %v", err)
	}
	loader := r.Loader
	if loader == nil {
		loader = lisplib.LoadLibrary
	}
	err = lisp.GoError(loader(env))
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %v", err)
	}
	return env, nil
}

// RunTest evaluates the source read from r.  Path is only used to determine
// a file basename to use in LEnv.Load().
func (r *Runner) RunTest(t *testing.T, path string, source io.Reader) {
	env, err := r.NewEnv(t)
	if err != nil {
		t.Error(err.Error())
		return
	}
	defer env.Runtime.Stderr.(*Logger).Flush()

	if r.Teardown != nil {
		defer func() {
			if err := lisp.GoError(r.Teardown(env)); err != nil {
				r.LispError(t, err)
			}
		}()
	}
	err = lisp.GoError(env.Load(filepath.Base(path), source))
	if err != nil {
		r.LispError(t, err)
	}
}

// RunTestFile runs the lisp test file at path as a subtest named after the
// file.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	t.Run(filepath.Base(path), func(t *testing.T) {
		r.RunTest(t, path, bytes.NewReader(source))
	})
}

// RunTestFiles runs every file matching the glob pattern as a test.
func (r *Runner) RunTestFiles(t *testing.T, pattern string) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no test files match %s", pattern)
	}
	for _, path := range paths {
		r.RunTestFile(t, path)
	}
}

// RunBenchmarkFile evaluates the file at path b.N times, each time in a
// fresh environment.
func (r *Runner) RunBenchmarkFile(b *testing.B, path string) {
	b.StopTimer()
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		b.Errorf("Unable to read benchmark file: %v", err)
		return
	}
	for i := 0; i < b.N; i++ {
		env, err := r.NewEnv(b)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		err = lisp.GoError(env.Load(filepath.Base(path), bytes.NewReader(source)))
		b.StopTimer()
		env.Runtime.Stderr.(*Logger).Flush()
		if err != nil {
			r.LispError(b, err)
			return
		}
	}
}

func (r *Runner) LispError(t testing.TB, err error) {
	lerr, ok := err.(*lisp.ErrorVal)
	if !ok {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// TestExpr is a lisp expression, the printed form of the value it evaluates
// to, and the output it writes to Runtime.Stdout.
type TestExpr struct {
	Expr   string `yaml:"expr"`
	Result string `yaml:"result"`
	Output string `yaml:"output,omitempty"`
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.LEnv.
type TestSequence []TestExpr

// TestCase is a named TestSequence.
type TestCase struct {
	Name         string `yaml:"name"`
	TestSequence `yaml:"sequence"`
}

// TestSuite is a set of named TestSequences
type TestSuite []TestCase

// NewEnv returns an environment with the library loaded.  Program output is
// written to stdout and diagnostics to stderr.
func NewEnv(stdout, stderr io.Writer) (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	err := lisp.GoError(lisp.InitializeUserEnv(env,
		lisp.WithMaximumPhysicalStackHeight(MaxPhysicalStackHeight),
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stderr),
		lisp.WithStdin(strings.NewReader("")),
	))
	if err != nil {
		return nil, err
	}
	err = lisp.GoError(lisplib.LoadLibrary(env))
	if err != nil {
		return nil, err
	}
	return env, nil
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		log.Printf("test %d -- %s", i, test.Name)
		var exprBuf bytes.Buffer
		env, err := NewEnv(&exprBuf, io.MultiWriter(os.Stderr, &exprBuf))
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			result := env.Eval(v[0]).String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if exprBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, exprBuf.String())
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := NewEnv(io.Discard, io.Discard)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		for i, expr := range exprs {
			lerr := env.Eval(expr)
			if lerr.Type == lisp.LError {
				b.Fatalf("expr %d: %v", i, lerr)
			}
		}
		b.StopTimer()
	}
}
