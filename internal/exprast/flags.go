package exprast

import "github.com/cwbudde/go-expr/internal/exprbox"

// NormFlags selects which of the optional normalization rewrites spec.md
// §4.4 describes are active for a given compile. They are independent bits
// so a host can mix and match.
type NormFlags uint32

const (
	// FoldUnaryOnNumberLiterals collapses a unary +/- applied directly to a
	// number literal into a single literal of the negated/unchanged value,
	// e.g. "-5" normalizes to "-5" as one token rather than "-" "5".
	FoldUnaryOnNumberLiterals NormFlags = 1 << iota

	// ForceHexLiterals rewrites every integer literal's normalized text to
	// hexadecimal, regardless of how it was originally written.
	ForceHexLiterals

	// ForceOctalLiterals rewrites every integer literal's normalized text to
	// octal.
	ForceOctalLiterals

	// ForceBinaryLiterals rewrites every integer literal's normalized text
	// to binary.
	ForceBinaryLiterals

	// ForceScientificFloats rewrites every float literal's normalized text
	// to scientific notation.
	ForceScientificFloats

	// AlwaysParenthesizeBinaryOps wraps every binary/ternary operand in
	// parentheses during normalization, even when precedence makes them
	// unnecessary — useful for maximally explicit round-trip text.
	AlwaysParenthesizeBinaryOps

	// ReplaceFunctionNames overwrites an identifier's normalized spelling
	// with the canonical DebugName the resolving plug-in returned, rather
	// than the user's original spelling.
	ReplaceFunctionNames

	// ReplaceAliasOperators overwrites a unary/binary operator's
	// normalized token with the canonical operator an operand-type-keyed
	// alias resolved to, rather than the symbol as written.
	ReplaceAliasOperators

	// VerbalOperatorsToSymbolic renders a verbal alias operator (e.g.
	// "and", "mod") as its canonical symbolic glyph ("&&", "%") in
	// normalized text, rather than preserving the verbal spelling the user
	// wrote.
	VerbalOperatorsToSymbolic
)

// Has reports whether every bit set in want is also set in f.
func (f NormFlags) Has(want NormFlags) bool { return f&want == want }

// NumericKinds gives the AST package just enough knowledge of the host's
// canonical integer and floating types to fold unary operators on number
// literals (spec.md §4.4) without hardcoding a fixed set of built-in types:
// the compiler that bootstraps these two types supplies the negation and
// NaN predicates that are otherwise type-specific.
type NumericKinds struct {
	IntType     exprbox.TypeID
	FloatType   exprbox.TypeID
	NegateInt   func(exprbox.Box) exprbox.Box
	NegateFloat func(exprbox.Box) exprbox.Box
	// IsNaN reports whether a float-typed Box holds NaN. The unary literal
	// fold uses it to leave a negated NaN literal unfolded; binary folds do
	// not consult it.
	IsNaN func(exprbox.Box) bool
}

func (nk NumericKinds) negate(lit *Literal) (exprbox.Box, bool) {
	switch {
	case lit.Value.IsType(nk.IntType) && nk.NegateInt != nil:
		return nk.NegateInt(lit.Value), true
	case lit.Value.IsType(nk.FloatType) && nk.NegateFloat != nil:
		if nk.IsNaN != nil && nk.IsNaN(lit.Value) {
			return exprbox.Box{}, false
		}
		return nk.NegateFloat(lit.Value), true
	default:
		return exprbox.Box{}, false
	}
}
