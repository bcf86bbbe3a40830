// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"log"

	"github.com/luthersystems/lsp/diagnostic"
	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lsputil"
	"github.com/spf13/viper"
)

// newEnv returns a root environment configured from the CLI configuration.
// Extra configs are applied after the configured ones.
func newEnv(extra ...lisp.Config) (*lisp.LEnv, error) {
	config := []lisp.Config{
		lisp.WithMaximumPhysicalStackHeight(maxStackHeight()),
	}
	config = append(config, extra...)
	if viper.GetBool(keyPrelude) {
		return lsputil.NewEnv(config...)
	}
	return lsputil.NewBareEnv(config...)
}

func maxStackHeight() int {
	n := viper.GetInt(keyMaxStackHeight)
	if n <= 0 {
		return DefaultMaxStackHeight
	}
	return n
}

func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(viper.GetString(keyColor))
	if err != nil {
		log.Printf("%v; using auto", err)
		return diagnostic.ColorAuto
	}
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderError writes err to w as an annotated diagnostic.
func renderError(w io.Writer, r *diagnostic.Renderer, err error) {
	if rerr := r.RenderError(w, err); rerr != nil {
		log.Printf("rendering error: %v", rerr)
	}
}
