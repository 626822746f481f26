package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fmtFlags commonFlags

var fmtCmd = &cobra.Command{
	Use:   "fmt <expression>",
	Short: "Print an expression's normalized source",
	Long: `Compile an expression and print its canonical re-rendering
(spec.md §4.4): explicit parenthesization, resolved aliases, and literals
re-rendered per the active normalization flags.

Example:
  expr fmt "1+2*3"
  expr fmt --flags=always-parenthesize "1+2*3"`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtFlags.register(fmtCmd)
}

func runFmt(_ *cobra.Command, args []string) error {
	c, err := fmtFlags.buildCompiler()
	if err != nil {
		return err
	}
	e, err := c.Compile(args[0])
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	fmt.Println(e.NormalizedSource())
	return nil
}
