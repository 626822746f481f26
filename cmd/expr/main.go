// Command expr is a CLI front end for pkg/expr: evaluate, decompile or
// normalize an expression from the shell without writing a host program.
package main

import (
	"os"

	"github.com/cwbudde/go-expr/cmd/expr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
