// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/lsp/docs"
	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/lisplib/libhelp"
	"github.com/spf13/cobra"
)

// DocCommand creates the "doc" cobra command.  Embedders can pass WithEnv
// to document their own builtins.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		sourceFile string
		listAll    bool
		missing    bool
		guide      bool
	)

	cmd := &cobra.Command{
		Use:   "doc [flags] NAME",
		Short: "Show documentation for functions, macros, and special operators",
		Long: `Show built-in documentation for functions, macros, special operators,
and other symbols.

Documentation is generated from docstrings.  Builtins and special
operators document themselves and functions defined in lisp use a
string at the start of a body with more than one expression.

Examples:
  lsp doc map                    Show docs for the map function
  lsp doc defn                   Show docs for the defn macro
  lsp doc -l                     List every documented symbol
  lsp doc -f mylib.lsp my-func   Load a file, then show docs for my-func
  lsp doc --missing              List symbols without documentation
  lsp doc --guide                Print the language guide`,
		Run: func(cmd *cobra.Command, args []string) {
			if guide {
				fmt.Fprint(cmd.OutOrStdout(), docs.LangGuide)
				return
			}
			if !listAll && !missing && len(args) != 1 {
				_ = cmd.Help()
				os.Exit(1)
			}
			env := cfg.env
			if env == nil {
				var err error
				env, err = docEnv(sourceFile)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			var err error
			switch {
			case listAll:
				err = libhelp.RenderSymbolList(out, env)
			case missing:
				err = renderMissing(out, env)
			default:
				err = libhelp.RenderVar(out, env, args[0])
			}
			if err != nil {
				_ = out.Flush()
				renderError(os.Stderr, newRenderer(), err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a source file before querying documentation.")
	cmd.Flags().BoolVarP(&listAll, "list", "l", false,
		"List every documented symbol with a summary.")
	cmd.Flags().BoolVar(&missing, "missing", false,
		"List functions, macros, and special operators without documentation.")
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the language guide.")
	return cmd
}

// docEnv returns an environment for documentation queries, loading
// sourceFile when it is not empty.  Output of the environment is buffered
// and only written if initialization fails.
func docEnv(sourceFile string) (*lisp.LEnv, error) {
	errbuf := &bytes.Buffer{}
	env, err := newEnv(lisp.WithStderr(errbuf), lisp.WithStdout(errbuf))
	if err != nil {
		_, _ = os.Stderr.Write(errbuf.Bytes())
		return nil, err
	}
	if sourceFile != "" {
		res := env.LoadFile(sourceFile)
		if res.Type == lisp.LError {
			_, _ = os.Stderr.Write(errbuf.Bytes())
			return nil, lisp.GoError(res)
		}
	}
	return env, nil
}

func renderMissing(w io.Writer, env *lisp.LEnv) error {
	for _, m := range libhelp.CheckMissing(env) {
		if _, err := fmt.Fprintf(w, "%s %s\n", m.Kind, m.Name); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
