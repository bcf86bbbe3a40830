// Copyright © 2024 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/lsp/elpstest"
)

func TestSuiteFiles(t *testing.T) {
	elpstest.RunTestSuiteFiles(t, "testdata/*.yaml")
}

func TestLispFiles(t *testing.T) {
	runner := &elpstest.Runner{}
	runner.RunTestFiles(t, "testdata/*.lsp")
}
