package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cwbudde/go-expr/internal/exprast"
)

var _ pflag.Value = (*normFlagsValue)(nil)

// normFlagNames maps the --flags value's comma-separated names onto
// exprast.NormFlags bits. These kebab-case names are the CLI's own; a YAML
// document's flags: list in pkg/envconfig spells the same bits in camelCase.
var normFlagNames = map[string]exprast.NormFlags{
	"fold-unary-literals":     exprast.FoldUnaryOnNumberLiterals,
	"force-hex":               exprast.ForceHexLiterals,
	"force-octal":             exprast.ForceOctalLiterals,
	"force-binary":            exprast.ForceBinaryLiterals,
	"force-scientific":        exprast.ForceScientificFloats,
	"always-parenthesize":     exprast.AlwaysParenthesizeBinaryOps,
}

// normFlagsValue implements pflag.Value, letting --flags take a
// comma-separated list of normalization flag names (e.g.
// "--flags=fold-unary-literals,always-parenthesize") rather than a raw
// bitmask a user would have to compute by hand.
type normFlagsValue struct {
	flags exprast.NormFlags
	raw   []string
}

func (v *normFlagsValue) String() string {
	return strings.Join(v.raw, ",")
}

func (v *normFlagsValue) Set(s string) error {
	if s == "" {
		return nil
	}
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		bit, ok := normFlagNames[name]
		if !ok {
			return fmt.Errorf("unknown normalization flag %q", name)
		}
		v.flags |= bit
		v.raw = append(v.raw, name)
	}
	return nil
}

func (v *normFlagsValue) Type() string { return "flags" }
