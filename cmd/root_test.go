// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/lsp/diagnostic"
	"github.com/luthersystems/lsp/lisp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	assert.True(t, viper.GetBool(keyPrelude))
	assert.Equal(t, DefaultMaxStackHeight, maxStackHeight())
	assert.Equal(t, diagnostic.ColorAuto, colorMode())
}

func TestConfigEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LSP_MAX_STACK_HEIGHT", "50")
	t.Setenv("LSP_PRELUDE", "false")
	t.Setenv("LSP_COLOR", "never")
	initConfig()

	assert.Equal(t, 50, maxStackHeight())
	assert.Equal(t, diagnostic.ColorNever, colorMode())

	env, err := newEnv(lisp.WithStderr(&bytes.Buffer{}))
	require.NoError(t, err)
	_, ok := env.Lookup("map")
	assert.False(t, ok, "prelude should not be loaded")

	res := env.LoadString("test", "(def f (fn f (n) (+ 1 (f n)))) (f 1)")
	require.Equal(t, lisp.LError, res.Type)
	assert.Equal(t, lisp.CondStackOverflow, (*lisp.ErrorVal)(res).Condition())
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".lsp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: always\nmax-stack-height: 77\n"), 0600))
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0600))

	cfgFile = path
	t.Cleanup(func() {
		cfgFile = ""
		viper.SetConfigFile(empty)
		_ = viper.ReadInConfig()
	})
	initConfig()

	assert.Equal(t, viper.ConfigFileUsed(), path)
	assert.Equal(t, diagnostic.ColorAlways, colorMode())
	assert.Equal(t, 77, maxStackHeight())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "lsp version "+lisp.Version+"\n", out.String())
}

func TestLangserverCommand(t *testing.T) {
	cmd := LangserverCommand()
	assert.Equal(t, "langserver [flags]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("stdio"))
	assert.NotNil(t, cmd.Flags().Lookup("port"))
}
