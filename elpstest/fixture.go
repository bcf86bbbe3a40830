// Copyright © 2024 The ELPS authors

package elpstest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// LoadTestSuiteFile reads a TestSuite from the YAML document at path.  The
// document is a list of test cases:
//
//	- name: arithmetic
//	  sequence:
//	    - expr: (+ 1 2)
//	      result: "3"
func LoadTestSuiteFile(path string) (TestSuite, error) {
	b, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return nil, err
	}
	var suite TestSuite
	err = yaml.Unmarshal(b, &suite)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range suite {
		if suite[i].Name == "" {
			return nil, fmt.Errorf("%s: test %d has no name", path, i)
		}
		if len(suite[i].TestSequence) == 0 {
			return nil, fmt.Errorf("%s: test %q has no expressions", path, suite[i].Name)
		}
	}
	return suite, nil
}

// RunTestSuiteFiles loads every YAML test suite matching the glob pattern
// and runs each as a subtest named after its file.
func RunTestSuiteFiles(t *testing.T, pattern string) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no test suites match %s", pattern)
	}
	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			suite, err := LoadTestSuiteFile(path)
			if err != nil {
				t.Fatal(err)
			}
			RunTestSuite(t, suite)
		})
	}
}
