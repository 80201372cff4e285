package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/scriptengine/internal/ast"
	"github.com/cwbudde/scriptengine/internal/diagnostics"
	"github.com/cwbudde/scriptengine/internal/parser"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script file or expression and print its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEvalExpr, args)
	if err != nil {
		return err
	}

	stmts, fns, err := parser.Parse(input)
	if err != nil {
		if pe, ok := err.(*parser.Error); ok {
			diagErr := diagnostics.New(diagnostics.ParseError, pe.Pos, "%s", pe.Message)
			fmt.Print(diagErr.Format(input))
			return fmt.Errorf("parsing %s failed", filename)
		}
		return err
	}

	for _, fn := range fns {
		fmt.Printf("fn %s(%v) at %s\n", fn.Name, fn.Params, fn.Position)
		printBlock(fn.Body, 1)
	}
	for _, s := range stmts {
		printStmt(s, 0)
	}
	return nil
}

func printBlock(b *ast.Block, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for _, s := range b.Stmts {
		fmt.Printf("%s%T at %s\n", indent, s, s.Pos())
	}
}

func printStmt(s ast.Stmt, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Printf("%s%T at %s\n", indent, s, s.Pos())
	if b, ok := s.(*ast.Block); ok {
		printBlock(b, depth+1)
	}
}
