// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/lsp/lisp"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the language version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lsp version %s\n", lisp.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
