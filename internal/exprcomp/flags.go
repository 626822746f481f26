package exprcomp

// CompileFlags selects compile-time behaviors distinct from
// exprast.NormFlags' purely rendering-level normalization rewrites
// (spec.md §4.5): these gate parsing grammar and optimization decisions
// rather than how an already-resolved node's normalized text is spelled.
type CompileFlags uint32

const (
	// NoOptimization disables every constant-folding rewrite a Compile
	// call would otherwise apply: a plug-in's CTInvokable eager evaluation
	// of an all-constant call/operator, constant propagation via
	// BinaryConstOptimize, and the ternary collapse to its
	// statically-known branch. A compiled Program's instruction stream
	// then mirrors the parsed expression's structure one-for-one.
	NoOptimization CompileFlags = 1 << iota

	// AllowIdentifiersForNestedExpressions lets the nested-expression
	// operator's operand be a bare identifier, lifted into a string
	// literal naming the referenced expression (spec.md §4.2/§4.8).
	// Without it, a bare identifier after the operator is left as an
	// ordinary Identifier node, evaluated like any other operand.
	AllowIdentifiersForNestedExpressions
)

// Has reports whether every bit set in want is also set in f.
func (f CompileFlags) Has(want CompileFlags) bool { return f&want == want }
