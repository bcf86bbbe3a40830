// Copyright © 2024 The ELPS authors

package elpstest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/lsp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTestSuite(t *testing.T) {
	RunTestSuite(t, TestSuite{
		{"output", TestSequence{
			{`(print "a" 1)`, "nil", "a 1"},
			{`(println "b")`, "nil", "b\n"},
			{"(+ 1 2)", "3", ""},
		}},
		{"errors", TestSequence{
			{"(undefined 1)", "test:1:2: unbound-symbol: undefined", ""},
		}},
	})
}

func TestLoadTestSuiteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	err := os.WriteFile(path, []byte(`
- name: arithmetic
  sequence:
    - expr: (+ 1 2)
      result: "3"
    - expr: (print "x")
      result: nil
      output: x
`), 0600)
	require.NoError(t, err)

	suite, err := LoadTestSuiteFile(path)
	require.NoError(t, err)
	require.Len(t, suite, 1)
	assert.Equal(t, "arithmetic", suite[0].Name)
	assert.Equal(t, TestSequence{
		{Expr: "(+ 1 2)", Result: "3"},
		{Expr: `(print "x")`, Result: "nil", Output: "x"},
	}, suite[0].TestSequence)
	RunTestSuite(t, suite)
}

func TestLoadTestSuiteFileInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"noname.yaml":    "- sequence:\n    - expr: \"1\"\n      result: \"1\"\n",
		"noexprs.yaml":   "- name: empty\n",
		"malformed.yaml": "- name: [\n",
		"notalist.yaml":  "name: x\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		_, err := LoadTestSuiteFile(path)
		assert.Error(t, err, name)
	}
}

func TestRunnerTeardown(t *testing.T) {
	var torndown bool
	runner := &Runner{
		Teardown: func(env *lisp.LEnv) *lisp.LVal {
			torndown = true
			return lisp.Nil()
		},
	}
	runner.RunTest(t, "ok.lsp", strings.NewReader(`(def x (inc 1)) (println x)`))
	assert.True(t, torndown)
}

func TestRunnerLoader(t *testing.T) {
	var loaded bool
	runner := &Runner{
		Loader: func(env *lisp.LEnv) *lisp.LVal {
			loaded = true
			return lisp.Nil()
		},
	}
	env, err := runner.NewEnv(t)
	require.NoError(t, err)
	assert.True(t, loaded)
	_, ok := env.Lookup("inc")
	assert.False(t, ok, "custom loader replaces the prelude")
}

type recordTB struct {
	testing.TB
	logs []string
}

func (r *recordTB) Log(args ...interface{}) {
	r.logs = append(r.logs, fmt.Sprint(args...))
}

func TestLogger(t *testing.T) {
	tb := &recordTB{TB: t}
	log := NewLogger(tb)
	_, err := log.Write([]byte("one\ntw"))
	require.NoError(t, err)
	_, err = log.Write([]byte("o\nthree"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, tb.logs)
	log.Flush()
	assert.Equal(t, []string{"one", "two", "three"}, tb.logs)
	log.Flush()
	assert.Len(t, tb.logs, 3)
}
