// Package exprplugin defines the compile plug-in contract (spec.md §4.6):
// the five request kinds a plug-in answers, and the mutable compile-info
// bundle passed with each request.
package exprplugin

import (
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// ArgInfo describes one already-assembled argument: its result sample box
// and, when known at compile time, whether it is constant and what its
// value is.
type ArgInfo struct {
	Result exprbox.Box
	Value  exprbox.Box
	Const  bool
}

// Resolution is embedded in every request kind's info struct: the out-slots
// a plug-in fills in when it accepts a request.
type Resolution struct {
	Callback      exprscope.Func
	Result        exprbox.Box
	DebugName     string
	CTInvokable   bool
	IsConstant    bool
	ConstantValue exprbox.Box
	// RewrittenOperator carries an alias rewrite's canonical operator
	// symbol back to the caller (unary/binary requests only).
	RewrittenOperator string
	// NoFold asks a plug-in to skip eagerly invoking a CTInvokable
	// callback even when every argument is constant, set by the assembler
	// when the compile's no-optimization flag is active (spec.md §4.5).
	NoFold bool
}

// FunctionInfo is the request bundle for a zero-or-more-argument function
// (identifiers are requested as zero-arg functions, per spec.md §4.4).
type FunctionInfo struct {
	Resolution
	Name string
	Args []ArgInfo
	Pos  int
}

// UnaryOpInfo is the request bundle for a unary operator application.
type UnaryOpInfo struct {
	Resolution
	Operator string
	Arg      ArgInfo
	Pos      int
}

// BinaryOpInfo is the request bundle for a binary operator application,
// including the subscript operator "[]".
type BinaryOpInfo struct {
	Resolution
	Operator string
	Lhs, Rhs ArgInfo
	Pos      int
}

// AutoCastInfo is the request bundle for an automatic type conversion the
// compiler needs in order to match a call to a declared signature.
type AutoCastInfo struct {
	Resolution
	From exprbox.Box
	To   exprbox.Box
}

// AliasInfo is the request bundle for resolving a verbal or symbolic alias
// operator into its canonical operator, keyed by operand type(s).
type AliasInfo struct {
	Operator     string
	OperandTypes []exprbox.TypeID
	Canonical    string
}

// CompilePlugin answers compile-time "how do I compile this?" requests.
// Plug-ins are tried in priority order by the compiler's chain until one
// returns true; see internal/calculus for the table-driven helper that
// implements this interface from static data.
type CompilePlugin interface {
	Name() string
	TryFunction(ctScope *exprscope.Scope, info *FunctionInfo) (bool, error)
	TryUnaryOp(ctScope *exprscope.Scope, info *UnaryOpInfo) (bool, error)
	TryBinaryOp(ctScope *exprscope.Scope, info *BinaryOpInfo) (bool, error)
	TryAutoCast(ctScope *exprscope.Scope, info *AutoCastInfo) (bool, error)
	TryAlias(info *AliasInfo) (bool, error)
}

// Base implements every CompilePlugin method as a no-op returning
// (false, nil); concrete plug-ins embed Base and override only the
// request kinds they answer, rather than boilerplating all five.
type Base struct{ PluginName string }

func (b Base) Name() string { return b.PluginName }

func (Base) TryFunction(*exprscope.Scope, *FunctionInfo) (bool, error)   { return false, nil }
func (Base) TryUnaryOp(*exprscope.Scope, *UnaryOpInfo) (bool, error)     { return false, nil }
func (Base) TryBinaryOp(*exprscope.Scope, *BinaryOpInfo) (bool, error)   { return false, nil }
func (Base) TryAutoCast(*exprscope.Scope, *AutoCastInfo) (bool, error)   { return false, nil }
func (Base) TryAlias(*AliasInfo) (bool, error)                           { return false, nil }

// Chain is a priority-ordered list of plug-ins, consulted in order until
// one returns true; "not found" is signalled by returning ok=false with no
// error after exhausting the chain, leaving the caller to raise the
// appropriate typed exception.
type Chain struct {
	plugins []CompilePlugin
}

// NewChain returns an empty chain; the compiler inserts its built-in
// nested-expression plug-in at construction time (highest priority), and
// other plug-ins may be inserted at any position.
func NewChain() *Chain { return &Chain{} }

// Insert adds plugin at position idx (0 = highest priority, tried first).
func (c *Chain) Insert(idx int, plugin CompilePlugin) {
	if idx < 0 || idx > len(c.plugins) {
		idx = len(c.plugins)
	}
	c.plugins = append(c.plugins, nil)
	copy(c.plugins[idx+1:], c.plugins[idx:])
	c.plugins[idx] = plugin
}

// Append adds plugin at the lowest priority (tried last).
func (c *Chain) Append(plugin CompilePlugin) { c.Insert(len(c.plugins), plugin) }

// TryFunction consults the chain in order for a function/identifier.
func (c *Chain) TryFunction(ctScope *exprscope.Scope, info *FunctionInfo) (bool, error) {
	for _, p := range c.plugins {
		ok, err := p.TryFunction(ctScope, info)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// TryUnaryOp consults the chain in order for a unary operator.
func (c *Chain) TryUnaryOp(ctScope *exprscope.Scope, info *UnaryOpInfo) (bool, error) {
	for _, p := range c.plugins {
		ok, err := p.TryUnaryOp(ctScope, info)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// TryBinaryOp consults the chain in order for a binary operator.
func (c *Chain) TryBinaryOp(ctScope *exprscope.Scope, info *BinaryOpInfo) (bool, error) {
	for _, p := range c.plugins {
		ok, err := p.TryBinaryOp(ctScope, info)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// TryAutoCast consults the chain in order for an automatic type cast.
func (c *Chain) TryAutoCast(ctScope *exprscope.Scope, info *AutoCastInfo) (bool, error) {
	for _, p := range c.plugins {
		ok, err := p.TryAutoCast(ctScope, info)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// TryAlias consults the chain in order for an alias-operator rewrite.
func (c *Chain) TryAlias(info *AliasInfo) (bool, error) {
	for _, p := range c.plugins {
		ok, err := p.TryAlias(info)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
