package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/pkg/envconfig"
	"github.com/cwbudde/go-expr/pkg/expr"
)

// commonFlags are registered on eval, decompile and fmt alike: every
// subcommand compiles an expression the same way, they just do different
// things with the result.
type commonFlags struct {
	envPath    string
	jsonPath   string
	normFlags  normFlagsValue
	noStdlib   bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.envPath, "env", "", "path to a YAML environment document (pkg/envconfig)")
	cmd.Flags().StringVar(&f.jsonPath, "json", "", "path to a JSON file bound as host data for Json()/JsonSet()")
	cmd.Flags().Var(&f.normFlags, "flags", "comma-separated normalization flags (see pkg/envconfig)")
	cmd.Flags().BoolVar(&f.noStdlib, "no-stdlib", false, "skip registering the built-in content libraries")
}

// buildCompiler constructs a *expr.Compiler from the subcommand's shared
// flags: an optional --env document goes through envconfig.New, which puts
// the document's flags first and these options after, so --flags replaces
// a flags list the document declares.
func (f *commonFlags) buildCompiler() (*expr.Compiler, error) {
	var opts []expr.Option
	if f.noStdlib {
		opts = append(opts, expr.WithoutStandardLibrary())
	}
	if f.normFlags.flags != 0 {
		opts = append(opts, expr.WithFlags(f.normFlags.flags))
	}

	if f.envPath == "" {
		return expr.New(opts...), nil
	}

	env, err := envconfig.Load(f.envPath)
	if err != nil {
		return nil, err
	}
	return envconfig.New(env, opts...)
}

// hostData reads --json, when given, into a *jsonhost.Document bound as
// the Scope's host data for Json()/JsonSet() calls.
func (f *commonFlags) hostData() (any, error) {
	if f.jsonPath == "" {
		return nil, nil
	}
	return loadJSONDocument(f.jsonPath)
}

// compileAndRun compiles text with c, evaluates it against scope, and
// returns the result formatted for the CLI's stdout.
func compileAndRun(c *expr.Compiler, text string, scope any) (string, error) {
	e, err := c.Compile(text)
	if err != nil {
		return "", fmt.Errorf("compile: %w", err)
	}
	result, err := e.Evaluate(c.NewScope(scope))
	if err != nil {
		return "", fmt.Errorf("evaluate: %w", err)
	}
	return formatBox(c, result), nil
}

func formatBox(c *expr.Compiler, b exprbox.Box) string {
	switch b.TypeID() {
	case c.IntType():
		return fmt.Sprintf("%d", exprbox.Unbox[int64](b))
	case c.FloatType():
		return fmt.Sprintf("%g", exprbox.Unbox[float64](b))
	case c.BoolType():
		return fmt.Sprintf("%t", exprbox.Unbox[bool](b))
	case c.StringType():
		return exprbox.Unbox[string](b)
	default:
		return fmt.Sprintf("%v", b)
	}
}
