// Command script is the reference CLI for the scriptengine evaluation
// core: run, lex, parse, and inspect programs written in the embeddable
// scripting language.
package main

import (
	"os"

	"github.com/cwbudde/scriptengine/cmd/script/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
