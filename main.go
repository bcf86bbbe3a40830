// Copyright © 2018 The ELPS authors

package main

import "github.com/luthersystems/lsp/cmd"

func main() {
	cmd.Execute()
}
