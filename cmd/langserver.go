// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/luthersystems/lsp/langserver"
	"github.com/spf13/cobra"
)

// LangserverCommand creates the "langserver" cobra command.  Embedders can
// pass WithEnv so hover and completion know about their builtins.
func LangserverCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "langserver [flags]",
		Short: "Start the Language Server Protocol server",
		Long: `Start an LSP server for lsp source files.

The language server reports syntax errors as you type, shows
documentation on hover, completes symbol names, lists the definitions in
a file, and jumps to top-level definitions.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			var serverOpts []langserver.Option
			if cfg.env != nil {
				serverOpts = append(serverOpts, langserver.WithEnv(cfg.env))
			} else {
				env, err := newEnv()
				if err != nil {
					fmt.Fprintf(os.Stderr, "Language initialization failure: %v\n", err)
					os.Exit(1)
				}
				serverOpts = append(serverOpts, langserver.WithEnv(env))
			}
			srv, err := langserver.New(serverOpts...)
			if err != nil {
				fmt.Fprintf(os.Stderr, "langserver error: %v\n", err)
				os.Exit(1)
			}

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Printf("lsp language server listening on %s", addr)
				err = srv.RunTCP(addr)
			} else {
				err = srv.RunStdio()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "langserver error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for the server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LangserverCommand())
}
