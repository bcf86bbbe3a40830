// Copyright © 2024 The ELPS authors

package cmd

import "github.com/luthersystems/lsp/lisp"

// Option configures an exported command factory (DocCommand,
// LangserverCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env *lisp.LEnv
}

// WithEnv injects a fully configured LEnv.  For the doc command this is
// the environment used for documentation queries.  For the langserver
// command it supplies hover documentation and completion candidates.
// Embedders use it to expose their own builtins.
func WithEnv(env *lisp.LEnv) Option {
	return func(c *cmdConfig) { c.env = env }
}

func newCmdConfig(opts ...Option) *cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cfg
}
