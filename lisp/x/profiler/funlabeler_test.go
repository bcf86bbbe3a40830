package profiler

import (
	"testing"

	"github.com/luthersystems/lsp/lisp"
	"github.com/stretchr/testify/assert"
)

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{
			name:     "empty",
			label:    "",
			expected: "",
		},
		{
			name:     "normal",
			label:    "@trace{ Add-It }",
			expected: "Add-It",
		},
		{
			name:     "punctuation",
			label:    "@trace{ user-add! }",
			expected: "user-add!",
		},
		{
			name:     "predicate",
			label:    "@trace { user-exists? }",
			expected: "user-exists?",
		},
		{
			name:     "spaces",
			label:    "@trace{Add  It}",
			expected: "Add_It",
		},
		{
			name:     "no label",
			label:    "Adds things. @trace",
			expected: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := cleanLabel(tc.label)
			assert.Equal(t, tc.expected, actual, "cleanLabel(%s)", tc.label)
		})
	}
}

func TestFunName(t *testing.T) {
	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env)
	assert.True(t, lerr.IsNil())

	assert.Equal(t, "+", FunName(env.Get(lisp.Symbol("+"))))
	assert.Equal(t, "f", FunName(env.Lambda("f", lisp.Formals("x"), nil)))
	assert.Equal(t, AnonymousFunName, FunName(env.Lambda("", lisp.Formals(), nil)))
	assert.Equal(t, "", FunName(lisp.Int(1)))
}
