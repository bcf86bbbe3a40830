// Copyright © 2018 The ELPS authors

package repl

import (
	"testing"

	"github.com/luthersystems/lsp/lsputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolCompleter(t *testing.T) {
	env, err := lsputil.NewEnv()
	require.NoError(t, err)
	_, err = lsputil.EvaluateSourceEnv(env, "test", "(def my-value 1)")
	require.NoError(t, err)

	c := &symbolCompleter{env: env}

	// "de" matches def, defmacro, defn, dec.
	candidates, offset := c.Do([]rune("(de"), 3)
	assert.Equal(t, 2, offset)
	assert.Contains(t, candidates, []rune("f"))
	assert.Contains(t, candidates, []rune("fmacro"))
	assert.Contains(t, candidates, []rune("fn"))
	assert.Contains(t, candidates, []rune("c"))

	// User definitions complete.
	candidates, offset = c.Do([]rune("(+ my-"), 6)
	assert.Equal(t, 3, offset)
	assert.Equal(t, [][]rune{[]rune("value")}, candidates)

	// Completion works after quote characters.
	candidates, offset = c.Do([]rune("`(~@filt"), 8)
	assert.Equal(t, 4, offset)
	assert.Equal(t, [][]rune{[]rune("er")}, candidates)

	// Nothing to complete.
	candidates, _ = c.Do([]rune("(zzz-nonexistent"), 16)
	assert.Len(t, candidates, 0)
	candidates, offset = c.Do([]rune("("), 1)
	assert.Len(t, candidates, 0)
	assert.Equal(t, 0, offset)
}
