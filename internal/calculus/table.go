// Package calculus turns a static table of constants, functions, operators,
// aliases and constant-propagation optimizations into a live
// exprplugin.CompilePlugin. It follows
// original_source/src/alib/expressions/plugins/calculus.hpp: rather than
// writing one TryFunction/TryUnaryOp/... method per built-in, a plug-in
// author declares data and gets the dispatch, the "token abbreviation"
// name-matching rule (function and constant names may be called by any
// prefix at least MinAbbrevLen long; when a prefix fits several names, the
// first one in table order is taken), and constant folding for free.
package calculus

import (
	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// Side identifies which operand of a binary operator a ConstOptimization
// entry requires to be the constant one.
type Side int

const (
	SideEither Side = iota
	SideLhs
	SideRhs
)

// ConstFunc is a zero-argument, always-constant identifier (e.g. PI, E).
type ConstFunc struct {
	Name   string
	Result exprbox.Box
	Value  exprbox.Box
}

// FuncEntry is a named function signature. ArgTypes is nil/empty for a
// zero-argument function; when Variadic is true the last entry in
// ArgTypes is the type every trailing argument beyond the fixed prefix
// must match (the variadic sentinel).
type FuncEntry struct {
	Name        string
	ArgTypes    []exprbox.TypeID
	Variadic    bool
	Result      exprbox.Box
	CTInvokable bool
	Callback    exprscope.Func
}

// UnaryEntry is a unary operator overload keyed by its operand's type.
type UnaryEntry struct {
	Operator    string
	Operand     exprbox.TypeID
	Result      exprbox.Box
	CTInvokable bool
	Callback    exprscope.Func
}

// BinaryEntry is a binary operator overload keyed by its operand types.
type BinaryEntry struct {
	Operator    string
	Lhs, Rhs    exprbox.TypeID
	Result      exprbox.Box
	CTInvokable bool
	Callback    exprscope.Func
}

// AliasEntry maps a verbal or symbolic alias to its canonical operator,
// optionally restricted to a specific pair of operand types (nil means any).
type AliasEntry struct {
	Alias        string
	Canonical    string
	OperandTypes []exprbox.TypeID
}

// ConstOptimization is one constant-propagation rewrite rule: when op is
// applied with a ConstType-typed constant on the side(s) On, and Predicate
// (if non-nil) accepts the constant's value, the whole expression folds per
// Fold — either to the constant itself (FoldToConstant) or to the other,
// non-constant operand's own already-assembled program (FoldToOperand).
// Table-driven examples: "x && false" folds to false (FoldToConstant);
// "x && true" folds to x (FoldToOperand); "k + 0" folds to k
// (FoldToOperand, Side=SideEither since + is commutative).
type ConstOptimization struct {
	Operator  string
	ConstType exprbox.TypeID
	On        Side
	Predicate func(value exprbox.Box) bool
	Fold      exprast.ConstFold
}

// Table is the static declaration a concrete built-in plug-in (see
// internal/stdplugins) fills in; NewPlugin turns it into a live
// exprplugin.CompilePlugin.
type Table struct {
	Name          string
	MinAbbrevLen  int
	CaseSensitive bool
	Consts        []ConstFunc
	Funcs         []FuncEntry
	Unary         []UnaryEntry
	Binary        []BinaryEntry
	Aliases       []AliasEntry
	ConstOpt      []ConstOptimization
}
