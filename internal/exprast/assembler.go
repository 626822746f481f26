package exprast

import (
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprprog"
)

// Assembler is implemented by internal/exprcomp.Compiler and supplies every
// side effect Assemble needs: normalized-text emission, instruction
// emission via the shared exprprog.Builder, and plug-in resolution. Per
// the "AST owns no callback, program owns no AST" design note (spec.md
// §9), exprast depends only on the two leaf packages exprprog and
// exprplugin, never on exprcomp — the compiler depends on exprast, not
// the reverse.
type Assembler interface {
	Registry() *exprbox.Registry
	Flags() NormFlags
	Numeric() NumericKinds
	Builder() *exprprog.Builder

	// Text appends s to the normalized source under construction.
	Text(s string)
	// TextLen reports the current length of the normalized source, used to
	// compute the NormPos/NormEndPos span of the instruction a node emits.
	TextLen() int
	// ReplaceText overwrites the normalized-text byte range [start, end)
	// with replacement, used by the "replace function names"/"replace
	// alias operators" normalization rewrites to patch a token already
	// written before its canonical spelling was known. A caller that has
	// already emitted instructions for text lying at or after end must
	// shift their recorded NormPos/NormEndPos by the resulting byte-length
	// delta via Builder().ShiftNormPos.
	ReplaceText(start, end int, replacement string)

	// NoOptimization reports whether every constant-folding rewrite
	// (CTInvokable eager evaluation, constant propagation, and the
	// ternary-collapse) is suppressed for this compile (spec.md §4.5).
	NoOptimization() bool

	// RenderLiteral returns the normalized-text spelling of a literal
	// value, honoring hint and any Force*Literals/Force*Floats flag — the
	// compiler owns this since it alone knows the literal's declared type
	// and holds the exprfmt.Formatter that does the actual base/scientific
	// rendering.
	RenderLiteral(value exprbox.Box, hint NumberHint) string

	// Precedence returns op's binding power for bracket-placement
	// decisions; higher binds tighter. 0 for an operator with no declared
	// precedence (such an operand is bracketed under any binary operator of
	// higher precedence, but not as a ternary operand).
	Precedence(op string) int

	// ResolveFunction/ResolveUnary/ResolveBinary consult the plug-in chain
	// and fill in the request's Resolution; they return a typed
	// exprerr.Exception when no plug-in accepts the request.
	ResolveFunction(info *exprplugin.FunctionInfo) error
	ResolveUnary(info *exprplugin.UnaryOpInfo) error
	ResolveBinary(info *exprplugin.BinaryOpInfo) error

	// BinaryConstOptimize looks up a table-driven const-propagation rewrite
	// for a binary operator with exactly one constant operand (e.g.
	// "x && true" -> x, "k * 0" -> k's own zero). ok reports whether a
	// rewrite is registered for (op, constant's type, constant's value,
	// which side is constant); when ok, the result says which side's
	// already-emitted program the whole expression should collapse to.
	BinaryConstOptimize(op string, constOnLhs bool, constValue exprbox.Box) (result ConstFold, ok bool)
}

// ConstFold tells Assemble which side of a partially-constant binary
// expression the whole expression collapses to.
type ConstFold int

const (
	FoldToConstant ConstFold = iota
	FoldToOperand
)
