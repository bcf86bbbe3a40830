// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Prompt is the REPL prompt.  ContinuationPrompt is shown while an
// expression spans multiple lines.
const (
	Prompt             = "lsp> "
	ContinuationPrompt = "...  "
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL",
	Long: `Start an interactive read-eval-print loop.

Expressions may span several lines; the prompt changes until the
expression is complete.  Errors are reported and the loop continues.
Line editing, tab completion, and command history are supported via
readline.  Use Ctrl-D to exit and Ctrl-C to discard incomplete input.

Example REPL session:
  lsp> (+ 1 2)
  3
  lsp> (defn square (x) (* x x))
  #<fn square>
  lsp> (square 5)
  25
  lsp> (help map)
  ...`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runRepl()
	},
}

func runRepl() {
	env, err := newEnv(lisp.WithStderr(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Language initialization failure: %v\n", err)
		os.Exit(1)
	}
	opts := []repl.Option{repl.WithColor(colorMode())}
	if path := viper.GetString(keyHistoryFile); path != "" {
		opts = append(opts, repl.WithHistoryFile(path))
	}
	repl.RunEnv(env, Prompt, ContinuationPrompt, opts...)
}

func init() {
	rootCmd.AddCommand(replCmd)
}
