// Package expr is the public facade: a Compiler that turns expression text
// into an immutable, concurrently-evaluable Expression, and a Scope
// constructor a host application uses to run one. It wires every built-in
// content library under internal/stdplugins onto an internal/exprcomp
// Compiler the way the teacher's pkg/dwscript wraps its own interpreter
// (New(opts...) (*Engine, error), functional options, typed Result).
package expr

import (
	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprcomp"
	"github.com/cwbudde/go-expr/internal/exprfmt"
	"github.com/cwbudde/go-expr/internal/exprprog"
	"github.com/cwbudde/go-expr/internal/exprscope"
	"github.com/cwbudde/go-expr/internal/stdplugins/arithmetic"
	"github.com/cwbudde/go-expr/internal/stdplugins/boolean"
	"github.com/cwbudde/go-expr/internal/stdplugins/jsonhost"
	"github.com/cwbudde/go-expr/internal/stdplugins/mathfn"
	"github.com/cwbudde/go-expr/internal/stdplugins/strfn"
)

// Compiler wraps an internal/exprcomp Compiler with the built-in content
// libraries already registered. Registration (AddPlugin, AddNamed,
// AddBinaryOperator, ...) is not safe for concurrent use; Compile is, once
// registration has finished (spec.md §5).
type Compiler struct {
	core *exprcomp.Compiler
}

// Option configures a Compiler at construction time.
type Option func(*settings)

type settings struct {
	locale         *exprfmt.Formatter
	flags          exprast.NormFlags
	skipArithmetic bool
	skipBoolean    bool
	skipStrings    bool
	skipMath       bool
	skipJSON       bool
}

// WithLocale overrides the number formatter literals render with (default:
// exprfmt.Default()).
func WithLocale(formatter *exprfmt.Formatter) Option {
	return func(s *settings) { s.locale = formatter }
}

// WithFlags sets the initial AST normalization flags (spec.md §4.4).
func WithFlags(flags exprast.NormFlags) Option {
	return func(s *settings) { s.flags = flags }
}

// WithoutStandardLibrary skips registering any of the five built-in
// content libraries, leaving a Compiler with only the four scalar types
// and no operators beyond what exprcomp.New bootstraps; a caller that
// wants a custom operator surface from scratch uses this and calls
// Core().AddPlugin itself.
func WithoutStandardLibrary() Option {
	return func(s *settings) {
		s.skipArithmetic, s.skipBoolean, s.skipStrings, s.skipMath, s.skipJSON = true, true, true, true, true
	}
}

// WithoutJSON skips registering the jsonhost content library (Json/
// JsonSet), for hosts that never bind a *jsonhost.Document as Scope host
// data and don't want the names reserved.
func WithoutJSON() Option {
	return func(s *settings) { s.skipJSON = true }
}

// New returns a Compiler with the built-in arithmetic, boolean, string,
// math and JSON-host content libraries registered.
func New(opts ...Option) *Compiler {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	var coreOpts []exprcomp.Option
	if s.locale != nil {
		coreOpts = append(coreOpts, exprcomp.WithLocale(s.locale))
	}
	if s.flags != 0 {
		coreOpts = append(coreOpts, exprcomp.WithFlags(s.flags))
	}

	core := exprcomp.New(coreOpts...)
	c := &Compiler{core: core}

	if !s.skipArithmetic {
		core.AddPlugin(arithmetic.New(arithmetic.Types{Int: core.IntType(), Float: core.FloatType(), Bool: core.BoolType()}))
	}
	if !s.skipBoolean {
		core.AddPlugin(boolean.New(core.Registry(), core.BoolType(), core.IntType(), core.FloatType(), core.StringType()))
	}
	if !s.skipStrings {
		core.AddPlugin(strfn.New(core.StringType(), core.IntType(), core.BoolType()))
	}
	if !s.skipMath {
		core.AddPlugin(mathfn.New(core.FloatType(), core.IntType()))
	}
	if !s.skipJSON {
		core.AddPlugin(jsonhost.New(core.StringType(), core.IntType(), core.FloatType(), core.BoolType()))
	}
	return c
}

// Core exposes the underlying exprcomp.Compiler for registration calls
// (AddType, AddPlugin, AddNamed, AddBinaryOperator, ...) not surfaced
// directly on Compiler.
func (c *Compiler) Core() *exprcomp.Compiler { return c.core }

// IntType/FloatType/StringType/BoolType expose the four built-in scalar
// types' identities, for a caller building Box values of its own.
func (c *Compiler) IntType() exprbox.TypeID    { return c.core.IntType() }
func (c *Compiler) FloatType() exprbox.TypeID  { return c.core.FloatType() }
func (c *Compiler) StringType() exprbox.TypeID { return c.core.StringType() }
func (c *Compiler) BoolType() exprbox.TypeID   { return c.core.BoolType() }

// Registry exposes the Compiler's type registry.
func (c *Compiler) Registry() *exprbox.Registry { return c.core.Registry() }

// Formatter exposes the Compiler's number formatter, for a caller
// constructing its own Scope with NewScope.
func (c *Compiler) Formatter() *exprfmt.Formatter { return c.core.Formatter() }

// AddNamed registers (or replaces) a named expression, resolved lazily
// through the `*name` / `Expression(name, default[, Throw])` syntax
// (spec.md §4.8).
func (c *Compiler) AddNamed(name, text string) { c.core.AddNamed(name, text) }

// RemoveNamed unregisters a named expression.
func (c *Compiler) RemoveNamed(name string) { c.core.RemoveNamed(name) }

// Compile parses, optimizes and assembles text into an immutable
// Expression (spec.md §4.5). Every field of the returned Expression is
// safe to read and Evaluate concurrently, provided each caller supplies
// its own Scope.
func (c *Compiler) Compile(text string) (*Expression, error) {
	prog, err := c.core.Compile(text)
	if err != nil {
		return nil, err
	}
	return &Expression{prog: prog, reg: c.core.Registry()}, nil
}

// Expression is a compiled expression program: immutable once returned by
// Compile (spec.md §4.5, §6).
type Expression struct {
	prog *exprprog.Program
	reg  *exprbox.Registry
}

// Evaluate runs the expression against scope, returning its result Box.
func (x *Expression) Evaluate(scope *exprscope.Scope) (exprbox.Box, error) {
	return exprprog.Evaluate(x.prog, x.reg, scope)
}

// ResultType returns a zero-valued sample of the expression's statically
// declared result type, for a caller that wants to check a result's shape
// before evaluating.
func (x *Expression) ResultType() exprbox.Box { return x.prog.ResultType }

// NormalizedSource returns the expression's canonical re-rendering (spec.md
// §4.4): parenthesization made explicit, aliases resolved, literals
// re-rendered per the Compiler's active flags.
func (x *Expression) NormalizedSource() string { return x.prog.Normalized }

// DecompileProgram renders the expression's instruction stream as a
// multi-column textual listing, for diagnostics only (spec.md §4.7).
func (x *Expression) DecompileProgram() string { return exprprog.Decompile(x.prog) }

// SourcePositionOfInstruction returns the normalized-source byte offset
// instruction i begins at, or -1 if i is out of range.
func (x *Expression) SourcePositionOfInstruction(i int) int {
	return exprprog.SourcePositionOfInstruction(x.prog, i)
}

// NewScope returns a fresh per-evaluation Scope using c's number formatter,
// with hostData as the slot callbacks like jsonhost.Json read or write
// (pass a *jsonhost.Document to use the built-in JSON content library).
func (c *Compiler) NewScope(hostData any) *exprscope.Scope {
	return exprscope.New(c.core.Formatter(), hostData)
}
