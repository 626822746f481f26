package exprcomp

import (
	"fmt"

	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprerr"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// resolveFunction consults the plug-in chain for a function/identifier
// request, raising the typed exception spec.md §6 names when nothing in
// the chain answers it.
func (c *Compiler) resolveFunction(ctScope *exprscope.Scope, info *exprplugin.FunctionInfo) error {
	ok, err := c.chain.TryFunction(ctScope, info)
	if err != nil {
		return err
	}
	if !ok {
		kind := exprerr.UnknownIdentifier
		if len(info.Args) > 0 {
			kind = exprerr.UnknownFunctionSignature
		}
		return exprerr.New(kind, fmt.Sprintf("unknown identifier or function %q", info.Name)).
			At(info.Pos, "").WithToken(info.Name)
	}
	return nil
}

func (c *Compiler) resolveUnary(ctScope *exprscope.Scope, info *exprplugin.UnaryOpInfo) error {
	ok, err := c.chain.TryUnaryOp(ctScope, info)
	if err != nil {
		return err
	}
	if !ok {
		return exprerr.New(exprerr.UnknownOperator,
			fmt.Sprintf("unary operator %q is not defined for type %s", info.Operator, c.reg.Name(info.Arg.Result.TypeID()))).
			At(info.Pos, "").WithToken(info.Operator)
	}
	return nil
}

// resolveBinary first offers the chain a chance to rewrite an
// operand-type-dependent alias into its canonical operator (e.g. a symbol
// that means different things for different operand types), then resolves
// the (possibly rewritten) operator against the chain's TryBinaryOp. The
// simpler, type-independent verbal aliases ("mod", "and", ...) are already
// rewritten by the parser itself via Config.VerbalBinaryOps and never reach
// here as anything but their canonical symbol.
func (c *Compiler) resolveBinary(ctScope *exprscope.Scope, info *exprplugin.BinaryOpInfo) error {
	aliasInfo := &exprplugin.AliasInfo{
		Operator:     info.Operator,
		OperandTypes: []exprbox.TypeID{info.Lhs.Result.TypeID(), info.Rhs.Result.TypeID()},
	}
	if ok, err := c.chain.TryAlias(aliasInfo); err != nil {
		return err
	} else if ok {
		info.Operator = aliasInfo.Canonical
		info.RewrittenOperator = aliasInfo.Canonical
	}

	ok, err := c.chain.TryBinaryOp(ctScope, info)
	if err != nil {
		return err
	}
	if !ok {
		return exprerr.New(exprerr.UnknownOperator,
			fmt.Sprintf("binary operator %q is not defined for types (%s, %s)", info.Operator,
				c.reg.Name(info.Lhs.Result.TypeID()), c.reg.Name(info.Rhs.Result.TypeID()))).
			At(info.Pos, "").WithToken(info.Operator)
	}
	return nil
}

// renderLiteral spells value out as normalized source text, honoring hint
// and the active Force*Literals/ForceScientificFloats flags (spec.md
// §4.4). It is the Compiler's job rather than exprast's since only the
// Compiler knows which TypeID is "the" integer/float/string/boolean type
// and owns the exprfmt.Formatter that performs the actual rendering.
func (c *Compiler) renderLiteral(value exprbox.Box, hint exprast.NumberHint) string {
	switch {
	case value.IsType(c.intType):
		base := 10
		switch {
		case c.flags.Has(exprast.ForceHexLiterals):
			base = 16
		case c.flags.Has(exprast.ForceOctalLiterals):
			base = 8
		case c.flags.Has(exprast.ForceBinaryLiterals):
			base = 2
		case hint == exprast.HintHex:
			base = 16
		case hint == exprast.HintOctal:
			base = 8
		case hint == exprast.HintBinary:
			base = 2
		}
		return c.formatter.Int(exprbox.Unbox[int64](value), base)

	case value.IsType(c.floatType):
		scientific := hint == exprast.HintScientific || c.flags.Has(exprast.ForceScientificFloats)
		return c.formatter.Float(exprbox.Unbox[float64](value), scientific)

	case value.IsType(c.stringType):
		return quoteString(exprbox.Unbox[string](value))

	case value.IsType(c.boolType):
		if exprbox.Unbox[bool](value) {
			return "true"
		}
		return "false"

	default:
		return exprbox.AppendString(c.reg, value)
	}
}
