package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var evalFlags commonFlags

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Compile and evaluate an expression",
	Long: `Compile and evaluate an expression, printing its result.

Examples:
  expr eval "(2 + 3) * 4"
  expr eval --json doc.json 'Json("name")'
  expr eval --env env.yaml '*total + 1'`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalFlags.register(evalCmd)
}

func runEval(_ *cobra.Command, args []string) error {
	c, err := evalFlags.buildCompiler()
	if err != nil {
		return err
	}
	data, err := evalFlags.hostData()
	if err != nil {
		return err
	}
	out, err := compileAndRun(c, args[0], data)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
