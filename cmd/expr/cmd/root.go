package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "expr",
	Short: "Embeddable expression engine CLI",
	Long: `expr is a command-line front end for the embeddable expression
engine: a small, typed expression language with constant folding,
user-defined operators and a pluggable content-library surface
(arithmetic, boolean logic, strings, math, JSON host data).

It is a debugging and scripting aid, not a host application: the engine
itself is meant to be embedded via pkg/expr, not driven through this CLI.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
