// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys.  Each may be set in the config file, by a flag, or by
// an environment variable with the LSP_ prefix (e.g. LSP_MAX_STACK_HEIGHT).
const (
	keyPrelude        = "prelude"
	keyMaxStackHeight = "max-stack-height"
	keyColor          = "color"
	keyHistoryFile    = "history-file"
)

// DefaultMaxStackHeight bounds the physical call stack of environments
// created by the CLI.
const DefaultMaxStackHeight = 10000

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lsp",
	Short: "lsp is a small Lisp interpreter",
	Long: `lsp is a small Lisp interpreter implemented in Go.

Getting started:
  lsp run file.lsp            Run a source file
  lsp run -c '(+ 1 2)'        Evaluate an expression and print its value
  lsp repl                    Start an interactive REPL (the default)
  lsp doc map                 Show documentation for a function
  lsp doc -l                  List every documented symbol
  lsp langserver              Run the language server over stdio

Language overview:
  Values are integers, exact rationals (1/3), strings, symbols, booleans,
  nil, lists, vectors [1 2], and hash maps {"a" 1}.  Functions are created
  with (fn (args) body) and named with (def name ...) or (defn name (args)
  body).  Macros are defined with defmacro and quasiquote templates.
  Only false and nil are falsey.

Configuration is read from $HOME/.lsp.yaml and LSP_* environment variables.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runRepl()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lsp.yaml)")
	flags.String(keyColor, "auto", `Control colored output: "auto", "always", or "never".`)
	flags.Bool(keyPrelude, true, "Load the prelude into new environments.")
	flags.Int(keyMaxStackHeight, DefaultMaxStackHeight, "Maximum call stack height before a stack-overflow error.")
	flags.String(keyHistoryFile, "", "REPL history file (default is $HOME/.lsp_history)")
	for _, key := range []string{keyColor, keyPrelude, keyMaxStackHeight, keyHistoryFile} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".lsp" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".lsp")
	}

	viper.SetEnvPrefix("lsp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
