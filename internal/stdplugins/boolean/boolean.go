// Package boolean is the built-in calculus content library for logical
// operators (original_source/src/alib/expressions/plugins/calculus.hpp's
// boolean overloads plus plugins/elvisoperator.hpp): "&&", "||" over
// Boolean, and the short-circuit-in-name-only "?:" elvis operator generalized
// over every scalar type the caller registers it for. Per the design
// decision recorded in DESIGN.md, every one of these is an ordinary eager
// BinaryEntry — ast.cpp's VM has no short-circuiting jump for a binary call,
// only for the ternary conditional — so both operands are always evaluated
// before the operator runs, same as +/-/*.
package boolean

import (
	"github.com/cwbudde/go-expr/internal/calculus"
	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// New returns the boolean calculus plug-in. boolType is the Compiler's
// Boolean type; elvisTypes additionally registers the "?:" elvis operator
// ("a if a is truthy, else b") over each listed type, always including
// boolType itself.
func New(reg *exprbox.Registry, boolType exprbox.TypeID, elvisTypes ...exprbox.TypeID) exprplugin.CompilePlugin {
	boolSample := exprbox.New(boolType, false)

	and := calculus.BinaryEntry{
		Operator: "&&", Lhs: boolType, Rhs: boolType, Result: boolSample, CTInvokable: true,
		Callback: func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(boolType, exprbox.Unbox[bool](args[0]) && exprbox.Unbox[bool](args[1])), nil
		},
	}
	or := calculus.BinaryEntry{
		Operator: "||", Lhs: boolType, Rhs: boolType, Result: boolSample, CTInvokable: true,
		Callback: func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(boolType, exprbox.Unbox[bool](args[0]) || exprbox.Unbox[bool](args[1])), nil
		},
	}

	seen := map[exprbox.TypeID]bool{boolType: true}
	types := []exprbox.TypeID{boolType}
	for _, t := range elvisTypes {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	binaries := []calculus.BinaryEntry{and, or}
	var constOpt []calculus.ConstOptimization

	isTrue := func(b exprbox.Box) bool { return exprbox.IsTrue(reg, b) }
	isFalse := func(b exprbox.Box) bool { return !exprbox.IsTrue(reg, b) }

	constOpt = append(constOpt,
		calculus.ConstOptimization{Operator: "&&", ConstType: boolType, On: calculus.SideEither, Predicate: isFalse, Fold: exprast.FoldToConstant},
		calculus.ConstOptimization{Operator: "&&", ConstType: boolType, On: calculus.SideEither, Predicate: isTrue, Fold: exprast.FoldToOperand},
		calculus.ConstOptimization{Operator: "||", ConstType: boolType, On: calculus.SideEither, Predicate: isTrue, Fold: exprast.FoldToConstant},
		calculus.ConstOptimization{Operator: "||", ConstType: boolType, On: calculus.SideEither, Predicate: isFalse, Fold: exprast.FoldToOperand},
	)

	for _, t := range types {
		sample := exprbox.New(t, nil)
		binaries = append(binaries, calculus.BinaryEntry{
			Operator: "?:", Lhs: t, Rhs: t, Result: sample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
				if exprbox.IsTrue(reg, args[0]) {
					return args[0], nil
				}
				return args[1], nil
			},
		})
		constOpt = append(constOpt,
			calculus.ConstOptimization{Operator: "?:", ConstType: t, On: calculus.SideLhs, Predicate: isTrue, Fold: exprast.FoldToConstant},
			calculus.ConstOptimization{Operator: "?:", ConstType: t, On: calculus.SideLhs, Predicate: isFalse, Fold: exprast.FoldToOperand},
		)
	}

	consts := []calculus.ConstFunc{
		{Name: "true", Result: boolSample, Value: exprbox.New(boolType, true)},
		{Name: "false", Result: boolSample, Value: exprbox.New(boolType, false)},
	}

	return calculus.NewPlugin(calculus.Table{
		Name:     "boolean",
		Consts:   consts,
		Binary:   binaries,
		ConstOpt: constOpt,
	})
}
