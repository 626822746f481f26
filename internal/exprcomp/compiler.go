// Package exprcomp implements the compiler that ties the scanner, AST and
// plug-in chain together into the single entry point spec.md §4.5
// describes: Compile(text) walks exprparse -> exprast.Optimize ->
// exprast.Assemble -> exprprog.Builder.Build. It follows the teacher's
// internal/bytecode.Compiler shape — a long-lived struct configured once
// via functional options and reused across many compiles — adapted to own
// a plug-in Chain, a type Registry and an operator precedence table
// instead of a symbol table of locals/globals.
package exprcomp

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/go-expr/internal/calculus"
	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprfmt"
	"github.com/cwbudde/go-expr/internal/exprlex"
	"github.com/cwbudde/go-expr/internal/exprparse"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprprog"
)

// Compiler owns everything a Compile call needs that must outlive any one
// call: the type registry, the plug-in chain, the operator precedence
// table, normalization flags, the named-expression registry and the
// number formatter. Per spec.md §5, Compile and Evaluate on compiled
// programs are safe for concurrent use once registration (AddPlugin,
// AddNamed, AddBinaryOperator, ...) has finished; registration itself must
// be externally serialized against Compile.
type Compiler struct {
	reg       *exprbox.Registry
	formatter *exprfmt.Formatter
	chain     *exprplugin.Chain

	intType, floatType, stringType, boolType exprbox.TypeID

	precedence  map[string]int
	unaryOps    []string
	binaryAlias map[string]string
	unaryAlias  map[string]string

	flags        exprast.NormFlags
	numeric      exprast.NumericKinds
	compileFlags CompileFlags

	constOpt []calculus.ConstOptimization

	forbidden []string

	named        map[string]string
	namedCacheMu sync.RWMutex
	namedCache   map[string]*exprprog.Program
	// typeInferenceStack guards against a compile-time infinite recursion
	// when two named expressions eagerly peek at each other's declared
	// result type (see nested.go); distinct from the runtime cycle guard
	// on exprscope.Scope, and — like AddNamed/Compile generally (spec.md
	// §5) — not safe for concurrent registration.
	typeInferenceStack map[string]bool

	nestedExprOperator string
	nestedExprFunc     string
	throwName          string
	throwType          exprbox.TypeID
	throwSentinel      exprbox.Box

	lexOptions exprlex.Options
}

// constOptSource is the side-channel a plug-in optionally implements to
// contribute constant-propagation rewrites (see internal/calculus.Plugin);
// it is detected with a type assertion rather than added to
// exprplugin.CompilePlugin itself, since it is an optimizer concern, not a
// "how do I compile this" request kind.
type constOptSource interface {
	ConstOptimizations() []calculus.ConstOptimization
}

// Option configures a Compiler at construction time.
type Option func(*Compiler)

// WithLocale overrides the number formatter used for literal rendering and
// every Scope created for evaluation (default: exprfmt.Default()).
func WithLocale(formatter *exprfmt.Formatter) Option {
	return func(c *Compiler) { c.formatter = formatter }
}

// WithFlags sets the initial normalization flags (spec.md §4.4).
func WithFlags(flags exprast.NormFlags) Option {
	return func(c *Compiler) { c.flags = flags }
}

// WithCompileFlags sets the initial compilation flags (spec.md §4.5):
// no-optimization and allow-identifiers-for-nested-expressions.
func WithCompileFlags(flags CompileFlags) Option {
	return func(c *Compiler) { c.compileFlags = flags }
}

// WithNestedExpression overrides the default prefix operator ("*") and
// function name ("Expression") that spec.md §4.8's nested-expression
// syntax routes through.
func WithNestedExpression(operator, funcName string) Option {
	return func(c *Compiler) {
		c.nestedExprOperator = operator
		c.nestedExprFunc = funcName
	}
}

// WithThrowName overrides the default name ("Throw") of the zero-argument
// sentinel identifier that, passed as Expression's third argument,
// requests a raised exception instead of a default value.
func WithThrowName(name string) Option {
	return func(c *Compiler) { c.throwName = name }
}

// WithForbiddenSubstrings overrides the default set of two-character
// substrings the assembler refuses to let operator/operand juxtaposition
// accidentally produce (SPEC_FULL.md SUPPLEMENTED FEATURES #1).
func WithForbiddenSubstrings(substrings ...string) Option {
	return func(c *Compiler) { c.forbidden = append([]string(nil), substrings...) }
}

// New returns a Compiler with the four built-in scalar types (Integer,
// Float, String, Boolean) bootstrapped and no calculus plug-ins
// registered; callers add built-ins with AddPlugin (see
// internal/stdplugins).
func New(opts ...Option) *Compiler {
	c := &Compiler{
		reg:                exprbox.NewRegistry(),
		chain:              exprplugin.NewChain(),
		precedence:         make(map[string]int),
		binaryAlias:        make(map[string]string),
		unaryAlias:         make(map[string]string),
		named:              make(map[string]string),
		namedCache:         make(map[string]*exprprog.Program),
		nestedExprOperator: "*",
		nestedExprFunc:     "Expression",
		throwName:          "Throw",
		forbidden:          []string{"--", "++", "/*", "*/", "//"},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.formatter == nil {
		c.formatter = exprfmt.Default()
	}
	c.bootstrapTypes()
	c.bootstrapOperators()
	c.chain.Insert(0, &nestedPlugin{c: c})
	return c
}

func (c *Compiler) bootstrapTypes() {
	c.intType = c.reg.Add("Integer", int64(0), exprbox.OpTable{
		Equals: func(a, b exprbox.Box) bool { return exprbox.Unbox[int64](a) == exprbox.Unbox[int64](b) },
		Less:   func(a, b exprbox.Box) bool { return exprbox.Unbox[int64](a) < exprbox.Unbox[int64](b) },
		IsTrue: func(b exprbox.Box) bool { return exprbox.Unbox[int64](b) != 0 },
		Hash:   func(b exprbox.Box) uint64 { return uint64(exprbox.Unbox[int64](b)) },
		AppendString: func(b exprbox.Box) string {
			return c.formatter.Int(exprbox.Unbox[int64](b), 10)
		},
	})
	c.floatType = c.reg.Add("Float", float64(0), exprbox.OpTable{
		Equals: func(a, b exprbox.Box) bool { return exprbox.Unbox[float64](a) == exprbox.Unbox[float64](b) },
		Less:   func(a, b exprbox.Box) bool { return exprbox.Unbox[float64](a) < exprbox.Unbox[float64](b) },
		IsTrue: func(b exprbox.Box) bool { return exprbox.Unbox[float64](b) != 0 },
		AppendString: func(b exprbox.Box) string {
			return c.formatter.Float(exprbox.Unbox[float64](b), false)
		},
	})
	c.stringType = c.reg.Add("String", "", exprbox.OpTable{
		Equals:       func(a, b exprbox.Box) bool { return exprbox.Unbox[string](a) == exprbox.Unbox[string](b) },
		Less:         func(a, b exprbox.Box) bool { return exprbox.Unbox[string](a) < exprbox.Unbox[string](b) },
		IsTrue:       func(b exprbox.Box) bool { return exprbox.Unbox[string](b) != "" },
		IsEmpty:      func(b exprbox.Box) bool { return exprbox.Unbox[string](b) == "" },
		AppendString: func(b exprbox.Box) string { return exprbox.Unbox[string](b) },
	})
	c.boolType = c.reg.Add("Boolean", false, exprbox.OpTable{
		Equals: func(a, b exprbox.Box) bool { return exprbox.Unbox[bool](a) == exprbox.Unbox[bool](b) },
		Less:   func(a, b exprbox.Box) bool { return !exprbox.Unbox[bool](a) && exprbox.Unbox[bool](b) },
		IsTrue: func(b exprbox.Box) bool { return exprbox.Unbox[bool](b) },
		AppendString: func(b exprbox.Box) string {
			if exprbox.Unbox[bool](b) {
				return "true"
			}
			return "false"
		},
	})
	c.throwType = c.reg.Add("NestedThrow", struct{}{}, exprbox.OpTable{})
	c.throwSentinel = exprbox.New(c.throwType, struct{}{})

	c.numeric = exprast.NumericKinds{
		IntType:     c.intType,
		FloatType:   c.floatType,
		NegateInt:   func(b exprbox.Box) exprbox.Box { return exprbox.New(c.intType, -exprbox.Unbox[int64](b)) },
		NegateFloat: func(b exprbox.Box) exprbox.Box { return exprbox.New(c.floatType, -exprbox.Unbox[float64](b)) },
		IsNaN:       func(b exprbox.Box) bool { return math.IsNaN(exprbox.Unbox[float64](b)) },
	}
}

// bootstrapOperators seeds the default precedence table spec.md §8's
// scenarios assume and the scanner options that go with it; AddBinaryOperator
// and AddUnaryOperator extend both later.
func (c *Compiler) bootstrapOperators() {
	defaults := []struct {
		op   string
		prec int
	}{
		{"?:", 1}, {"||", 2}, {"&&", 3},
		{"==", 4}, {"!=", 4}, {"<", 4}, {">", 4}, {"<=", 4}, {">=", 4},
		{"+", 5}, {"-", 5},
		{"*", 6}, {"/", 6}, {"%", 6},
		{"[]", 10},
	}
	for _, d := range defaults {
		c.precedence[d.op] = d.prec
	}
	c.unaryOps = []string{"-", "+", "!"}
	c.rebuildLexOptions()
}

func (c *Compiler) rebuildLexOptions() {
	opts := exprlex.DefaultOptions()
	seen := make(map[string]bool, len(opts.Operators))
	ops := append([]string(nil), opts.Operators...)
	for _, s := range ops {
		seen[s] = true
	}
	for op := range c.precedence {
		if op == "[]" || seen[op] {
			continue
		}
		ops = append(ops, op)
		seen[op] = true
	}
	for _, op := range c.unaryOps {
		if !seen[op] {
			ops = append(ops, op)
			seen[op] = true
		}
	}
	if c.nestedExprOperator != "" && !seen[c.nestedExprOperator] {
		ops = append(ops, c.nestedExprOperator)
	}
	opts.Operators = ops
	c.lexOptions = opts
}

// AddType registers a new value type on the Compiler's Registry, rejecting
// a name collision rather than silently overriding (spec.md §9 Open
// Question #1's resolution, applied uniformly to every registerable name).
func (c *Compiler) AddType(name string, zero any, ops exprbox.OpTable) (exprbox.TypeID, error) {
	if _, exists := c.reg.Lookup(name); exists {
		return 0, fmt.Errorf("exprcomp: type %q is already registered", name)
	}
	return c.reg.Add(name, zero, ops), nil
}

// TypeName returns the display name of b's registered type.
func (c *Compiler) TypeName(b exprbox.Box) string { return c.reg.Name(b.TypeID()) }

// Registry exposes the Compiler's type registry for callers building Box
// values to pass as host data or Scope arguments.
func (c *Compiler) Registry() *exprbox.Registry { return c.reg }

// IntType/FloatType/StringType/BoolType expose the four bootstrapped
// built-in scalar types' identities.
func (c *Compiler) IntType() exprbox.TypeID    { return c.intType }
func (c *Compiler) FloatType() exprbox.TypeID  { return c.floatType }
func (c *Compiler) StringType() exprbox.TypeID { return c.stringType }
func (c *Compiler) BoolType() exprbox.TypeID   { return c.boolType }

// Formatter exposes the Compiler's number formatter, for a caller building
// its own exprscope.Scope.
func (c *Compiler) Formatter() *exprfmt.Formatter { return c.formatter }

// AddBinaryOperator registers symbol as a binary operator at the given
// precedence, rejecting a collision with an already-registered operator.
func (c *Compiler) AddBinaryOperator(symbol string, precedence int) error {
	if _, exists := c.precedence[symbol]; exists {
		return fmt.Errorf("exprcomp: binary operator %q is already registered", symbol)
	}
	if _, exists := c.binaryAlias[symbol]; exists {
		return fmt.Errorf("exprcomp: %q is already registered as a binary alias", symbol)
	}
	c.precedence[symbol] = precedence
	c.rebuildLexOptions()
	return nil
}

// AddUnaryOperator registers symbol as a prefix unary operator, rejecting a
// collision with an already-registered unary operator.
func (c *Compiler) AddUnaryOperator(symbol string) error {
	for _, u := range c.unaryOps {
		if u == symbol {
			return fmt.Errorf("exprcomp: unary operator %q is already registered", symbol)
		}
	}
	if _, exists := c.unaryAlias[symbol]; exists {
		return fmt.Errorf("exprcomp: %q is already registered as a unary alias", symbol)
	}
	c.unaryOps = append(c.unaryOps, symbol)
	c.rebuildLexOptions()
	return nil
}

// AddBinaryAlias registers alias as a verbal or symbolic stand-in for
// canonical, resolved by the parser before any plug-in ever sees it.
func (c *Compiler) AddBinaryAlias(alias, canonical string) error {
	if _, exists := c.precedence[alias]; exists {
		return fmt.Errorf("exprcomp: alias %q collides with a registered binary operator", alias)
	}
	if _, exists := c.binaryAlias[alias]; exists {
		return fmt.Errorf("exprcomp: binary alias %q is already registered", alias)
	}
	c.binaryAlias[alias] = canonical
	return nil
}

// AddUnaryAlias registers alias as a verbal or symbolic stand-in for a
// canonical unary operator.
func (c *Compiler) AddUnaryAlias(alias, canonical string) error {
	for _, u := range c.unaryOps {
		if u == alias {
			return fmt.Errorf("exprcomp: alias %q collides with a registered unary operator", alias)
		}
	}
	if _, exists := c.unaryAlias[alias]; exists {
		return fmt.Errorf("exprcomp: unary alias %q is already registered", alias)
	}
	c.unaryAlias[alias] = canonical
	return nil
}

// AddPlugin appends p to the compile plug-in chain (lowest priority among
// user plug-ins; the built-in nested-expression plug-in always runs
// first) and, when p also contributes constant-propagation rewrites,
// merges them into the table BinaryConstOptimize consults.
func (c *Compiler) AddPlugin(p exprplugin.CompilePlugin) {
	c.chain.Append(p)
	if src, ok := p.(constOptSource); ok {
		c.constOpt = append(c.constOpt, src.ConstOptimizations()...)
	}
}

// AddNamed registers (or replaces) the named expression name, whose text
// is compiled lazily the first time a nested-expression reference resolves
// it (spec.md §4.8).
func (c *Compiler) AddNamed(name, text string) {
	c.named[name] = text
	c.namedCacheMu.Lock()
	delete(c.namedCache, name)
	c.namedCacheMu.Unlock()
}

// RemoveNamed unregisters name; a nested-expression reference to it will
// subsequently see NestedExpressionNotFound.
func (c *Compiler) RemoveNamed(name string) {
	delete(c.named, name)
	c.namedCacheMu.Lock()
	delete(c.namedCache, name)
	c.namedCacheMu.Unlock()
}

// GetNamed returns the registered text for name, if any.
func (c *Compiler) GetNamed(name string) (string, bool) {
	text, ok := c.named[name]
	return text, ok
}

// BinaryConstOptimize implements exprast.Assembler's constant-propagation
// lookup by scanning every plug-in's merged ConstOptimization table.
func (c *Compiler) BinaryConstOptimize(op string, constOnLhs bool, constValue exprbox.Box) (exprast.ConstFold, bool) {
	for _, e := range c.constOpt {
		if e.Operator != op || !constValue.IsType(e.ConstType) {
			continue
		}
		switch e.On {
		case calculus.SideLhs:
			if !constOnLhs {
				continue
			}
		case calculus.SideRhs:
			if constOnLhs {
				continue
			}
		}
		if e.Predicate != nil && !e.Predicate(constValue) {
			continue
		}
		return e.Fold, true
	}
	return 0, false
}

// parserConfig builds the exprparse.Config for the Compiler's current
// operator/alias registration state.
func (c *Compiler) parserConfig() exprparse.Config {
	return exprparse.Config{
		IntType: c.intType, FloatType: c.floatType, StringType: c.stringType,
		Precedence:                func(op string) (int, bool) { p, ok := c.precedence[op]; return p, ok },
		UnaryOperators:            append([]string(nil), c.unaryOps...),
		VerbalBinaryOps:           c.binaryAlias,
		VerbalUnaryOps:            c.unaryAlias,
		NestedExprOperator:        c.nestedExprOperator,
		NestedExprFunc:            c.nestedExprFunc,
		AllowIdentifiersForNested: c.compileFlags.Has(AllowIdentifiersForNestedExpressions),
	}
}

// Compile parses, optimizes and assembles text into an executable Program
// (spec.md §4.2–§4.5's end-to-end pipeline, the sole entry point a host
// application needs).
func (c *Compiler) Compile(text string) (*exprprog.Program, error) {
	parser, err := exprparse.New(text, c.lexOptions, c.parserConfig())
	if err != nil {
		return nil, err
	}
	node, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	node = exprast.Optimize(node, c.flags, c.numeric)

	s := c.newSession()
	result, err := exprast.Assemble(node, s)
	if err != nil {
		return nil, err
	}

	return s.builder.Build(string(s.text), result.Result), nil
}

// compileNamed compiles (and caches, keyed by name) the named expression
// text registered under name, so repeated nested-expression evaluations
// don't recompile it from scratch on every call.
func (c *Compiler) compileNamed(name, text string) (*exprprog.Program, error) {
	c.namedCacheMu.RLock()
	prog, ok := c.namedCache[name]
	c.namedCacheMu.RUnlock()
	if ok {
		return prog, nil
	}

	prog, err := c.Compile(text)
	if err != nil {
		return nil, err
	}

	c.namedCacheMu.Lock()
	c.namedCache[name] = prog
	c.namedCacheMu.Unlock()
	return prog, nil
}

// compileNamedForType is compileNamed guarded against the compile-time
// recursion two mutually-referencing named expressions would otherwise
// cause when each eagerly peeks at the other's declared result type (see
// nestedPlugin.TryFunction): it returns an error instead of recursing
// forever, which the caller treats as "type unknown" rather than fatal.
func (c *Compiler) compileNamedForType(name, text string) (*exprprog.Program, error) {
	if c.typeInferenceStack == nil {
		c.typeInferenceStack = make(map[string]bool)
	}
	if c.typeInferenceStack[name] {
		return nil, fmt.Errorf("exprcomp: named expression %q's declared type is self-referential", name)
	}
	c.typeInferenceStack[name] = true
	defer delete(c.typeInferenceStack, name)
	return c.compileNamed(name, text)
}
