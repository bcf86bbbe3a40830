// Copyright © 2018 The ELPS authors

package repl

import (
	"strings"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lisp/lisplib/libhelp"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the
// special operators, macros, and root bindings of an environment.
type symbolCompleter struct {
	env *lisp.LEnv
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to a delimiter).
	start := pos
	for start > 0 && !isDelimiter(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len(prefix)
}

func isDelimiter(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', ',', '(', '[', '{', '\'', '`', '~', '@':
		return true
	}
	return false
}

// collectSymbols returns the sorted names beginning with prefix.
func (c *symbolCompleter) collectSymbols(prefix string) []string {
	var result []string
	for _, name := range libhelp.Names(c.env) {
		if strings.HasPrefix(name, prefix) {
			result = append(result, name)
		}
	}
	return result
}
