package exprlex

import "sort"

// Options configures the scanner's recognized literal prefixes and
// operator alphabet. The compiler builds one from its configured operator
// sets (spec.md §4.5) and its configurable number-literal prefixes
// (spec.md §6).
type Options struct {
	HexPrefix string
	OctPrefix string
	BinPrefix string
	// Operators is the alphabet of symbolic operator glyphs the scanner
	// performs maximal-munch matching against. Order does not matter; New
	// sorts by descending length internally.
	Operators []string
}

// DefaultOptions returns the default recognized prefixes (spec.md §6) and
// a representative symbolic operator alphabet; a Compiler extends this set
// as custom operators are registered.
func DefaultOptions() Options {
	return Options{
		HexPrefix: "0x",
		OctPrefix: "0o",
		BinPrefix: "0b",
		Operators: []string{
			"+", "-", "*", "/", "%",
			"==", "!=", "<=", ">=", "<", ">",
			"&&", "||", "!",
			"=", "&", "|", "^", "~",
			"<<", ">>",
			"?:",
		},
	}
}

func (o Options) sortedOperators() []string {
	ops := make([]string, len(o.Operators))
	copy(ops, o.Operators)
	sort.Slice(ops, func(i, j int) bool { return len(ops[i]) > len(ops[j]) })
	return ops
}
