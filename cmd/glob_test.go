// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.lsp", "a.lsp", "notes.txt", "sub/c.lsp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("1"), 0600))
	}

	files, err := expandArgs([]string{"plain.lsp", dir + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"plain.lsp",
		filepath.Join(dir, "a.lsp"),
		filepath.Join(dir, "b.lsp"),
		filepath.Join(dir, "sub", "c.lsp"),
	}, files)
}

func TestExpandArgs_MissingDirectory(t *testing.T) {
	_, err := expandArgs([]string{filepath.Join(t.TempDir(), "missing") + "/..."})
	assert.Error(t, err)
}
