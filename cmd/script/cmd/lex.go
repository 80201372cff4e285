package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/scriptengine/internal/lexer"
	"github.com/cwbudde/scriptengine/internal/token"
)

var (
	lexEvalExpr string
	lexShowPos  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a script file or expression and print the token stream",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
}

func runLex(_ *cobra.Command, args []string) error {
	input, _, err := readSource(lexEvalExpr, args)
	if err != nil {
		return err
	}

	for _, tok := range lexer.All(input) {
		printLexToken(tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return nil
}

func printLexToken(tok token.Token) {
	if tok.Literal == "" {
		fmt.Printf("[%s]", tok.Type)
	} else {
		fmt.Printf("[%s %q]", tok.Type, tok.Literal)
	}
	if lexShowPos {
		fmt.Printf(" @%s", tok.Pos)
	}
	fmt.Println()
}
