package cmd

import (
	"fmt"
	"os"
)

// readSource determines the input source for run/lex/parse: inline code
// via -e, or a single file argument. Shared by the run/lex/parse
// subcommands' "-e or one file path" convention.
func readSource(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
