package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var decompileFlags commonFlags

var decompileCmd = &cobra.Command{
	Use:   "decompile <expression>",
	Short: "Compile an expression and print its instruction listing",
	Long: `Compile an expression without evaluating it, and print the
compiled program's disassembled instruction listing (spec.md §4.7) — a
debugging aid for seeing exactly what constant folding and operator
resolution produced.

Example:
  expr decompile "1 ? 10 : 20"`,
	Args: cobra.ExactArgs(1),
	RunE: runDecompile,
}

func init() {
	rootCmd.AddCommand(decompileCmd)
	decompileFlags.register(decompileCmd)
}

func runDecompile(_ *cobra.Command, args []string) error {
	c, err := decompileFlags.buildCompiler()
	if err != nil {
		return err
	}
	e, err := c.Compile(args[0])
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	fmt.Println(e.DecompileProgram())
	return nil
}
