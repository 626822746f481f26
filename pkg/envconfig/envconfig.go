// Package envconfig loads a declarative environment description from YAML
// and applies it to a pkg/expr Compiler, giving an embedder a config-file
// route to register operators and named expressions instead of only a
// programmatic one. Decoding follows the same read-file-then-yaml.Unmarshal
// shape the pack's YAML integrations use, built on
// github.com/goccy/go-yaml rather than gopkg.in/yaml.v3.
package envconfig

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/pkg/expr"
)

// Environment is the top-level shape of an environment YAML document.
//
//	operators:
//	  binary:
//	    - symbol: "~="
//	      precedence: 40
//	  unary:
//	    - symbol: "~"
//	  binaryAliases:
//	    - alias: "mod"
//	      canonical: "%"
//	  unaryAliases:
//	    - alias: "not"
//	      canonical: "!"
//	named:
//	  total: "10 + 5"
//	flags:
//	  - foldUnaryOnNumberLiterals
//	  - alwaysParenthesizeBinaryOps
type Environment struct {
	Operators Operators         `yaml:"operators"`
	Named     map[string]string `yaml:"named"`
	Flags     []string          `yaml:"flags"`
}

// Operators groups the operator-table overrides a YAML document can
// declare. Every entry is additive: an environment document cannot remove
// one of the four built-in scalar types or the content libraries a
// pkg/expr.Compiler was constructed with, only extend its operator surface.
type Operators struct {
	Binary        []BinaryOperator `yaml:"binary"`
	Unary         []UnaryOperator  `yaml:"unary"`
	BinaryAliases []Alias          `yaml:"binaryAliases"`
	UnaryAliases  []Alias          `yaml:"unaryAliases"`
}

// BinaryOperator declares a new binary operator symbol and its precedence
// (spec.md §4.2's operator table).
type BinaryOperator struct {
	Symbol     string `yaml:"symbol"`
	Precedence int    `yaml:"precedence"`
}

// UnaryOperator declares a new prefix unary operator symbol.
type UnaryOperator struct {
	Symbol string `yaml:"symbol"`
}

// Alias maps an alternate spelling onto a canonical operator symbol, e.g.
// "mod" onto "%".
type Alias struct {
	Alias     string `yaml:"alias"`
	Canonical string `yaml:"canonical"`
}

// namedFlags maps the YAML flag names an environment document may list onto
// the exprast.NormFlags bits pkg/expr.WithFlags expects. Spelled out instead
// of derived so a typo in a document fails loudly rather than silently
// matching no flag.
var namedFlags = map[string]exprast.NormFlags{
	"foldUnaryOnNumberLiterals":   exprast.FoldUnaryOnNumberLiterals,
	"forceHexLiterals":            exprast.ForceHexLiterals,
	"forceOctalLiterals":          exprast.ForceOctalLiterals,
	"forceBinaryLiterals":         exprast.ForceBinaryLiterals,
	"forceScientificFloats":       exprast.ForceScientificFloats,
	"alwaysParenthesizeBinaryOps": exprast.AlwaysParenthesizeBinaryOps,
}

// Parse decodes an environment document from YAML text.
func Parse(data []byte) (*Environment, error) {
	var env Environment
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("envconfig: parse: %w", err)
	}
	return &env, nil
}

// Load reads and decodes an environment document from a file on disk.
func Load(path string) (*Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("envconfig: read %s: %w", path, err)
	}
	return Parse(data)
}

// Flags resolves the document's flags list into a single exprast.NormFlags
// value, for a caller that wants to pass it to expr.WithFlags before
// constructing a Compiler.
func (env *Environment) Flags() (exprast.NormFlags, error) {
	var flags exprast.NormFlags
	for _, name := range env.Flags {
		bit, ok := namedFlags[name]
		if !ok {
			return 0, fmt.Errorf("envconfig: unknown flag %q", name)
		}
		flags |= bit
	}
	return flags, nil
}

// Apply registers env's operators, aliases and named expressions onto an
// already-constructed Compiler. Flags are not applied here since
// exprcomp.Compiler fixes its normalization flags at construction; use
// Flags and expr.WithFlags before calling expr.New when a document also
// declares flags.
func (env *Environment) Apply(c *expr.Compiler) error {
	core := c.Core()
	for _, op := range env.Operators.Binary {
		if err := core.AddBinaryOperator(op.Symbol, op.Precedence); err != nil {
			return fmt.Errorf("envconfig: binary operator %q: %w", op.Symbol, err)
		}
	}
	for _, op := range env.Operators.Unary {
		if err := core.AddUnaryOperator(op.Symbol); err != nil {
			return fmt.Errorf("envconfig: unary operator %q: %w", op.Symbol, err)
		}
	}
	for _, alias := range env.Operators.BinaryAliases {
		if err := core.AddBinaryAlias(alias.Alias, alias.Canonical); err != nil {
			return fmt.Errorf("envconfig: binary alias %q: %w", alias.Alias, err)
		}
	}
	for _, alias := range env.Operators.UnaryAliases {
		if err := core.AddUnaryAlias(alias.Alias, alias.Canonical); err != nil {
			return fmt.Errorf("envconfig: unary alias %q: %w", alias.Alias, err)
		}
	}
	for name, text := range env.Named {
		c.AddNamed(name, text)
	}
	return nil
}

// New builds a fresh pkg/expr.Compiler from an environment document: its
// flags seed the Compiler's construction, then its operators, aliases and
// named expressions are applied. opts are appended after the document's
// derived WithFlags option, so a caller can still pass WithoutStandardLibrary
// or WithLocale alongside a YAML-driven environment.
func New(env *Environment, opts ...expr.Option) (*expr.Compiler, error) {
	flags, err := env.Flags()
	if err != nil {
		return nil, err
	}
	allOpts := make([]expr.Option, 0, len(opts)+1)
	if flags != 0 {
		allOpts = append(allOpts, expr.WithFlags(flags))
	}
	allOpts = append(allOpts, opts...)

	c := expr.New(allOpts...)
	if err := env.Apply(c); err != nil {
		return nil, err
	}
	return c, nil
}
