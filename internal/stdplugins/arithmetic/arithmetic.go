// Package arithmetic is the built-in calculus content library for numeric
// operators (original_source/src/alib/expressions/plugins/arithmetics.hpp):
// +, -, *, / over Integer and Float, % over Integer only, plus the six comparison operators,
// all constant-foldable and, where either operand is Float, mixed
// Integer/Float pairs are given their own table entries rather than routed
// through exprplugin's AutoCast request (SPEC_FULL.md DOMAIN STACK; see
// DESIGN.md for why this built-in favors concrete per-pair table entries
// over the more general auto-cast mechanism).
package arithmetic

import (
	"fmt"

	"github.com/cwbudde/go-expr/internal/calculus"
	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// Types bundles the scalar type identities arithmetic needs; a Compiler's
// bootstrapped IntType/FloatType/BoolType satisfy it directly.
type Types struct {
	Int   exprbox.TypeID
	Float exprbox.TypeID
	Bool  exprbox.TypeID
}

func asFloat(t Types, b exprbox.Box) float64 {
	if b.IsType(t.Int) {
		return float64(exprbox.Unbox[int64](b))
	}
	return exprbox.Unbox[float64](b)
}

func binary(op string, lhs, rhs exprbox.TypeID, result exprbox.Box, fn exprscope.Func) calculus.BinaryEntry {
	return calculus.BinaryEntry{Operator: op, Lhs: lhs, Rhs: rhs, Result: result, CTInvokable: true, Callback: fn}
}

// New returns the arithmetic calculus plug-in for the given scalar types.
func New(t Types) exprplugin.CompilePlugin {
	intSample := exprbox.New(t.Int, int64(0))
	floatSample := exprbox.New(t.Float, float64(0))
	boolSample := exprbox.New(t.Bool, false)

	intBinary := func(op string, fn func(a, b int64) int64) calculus.BinaryEntry {
		return binary(op, t.Int, t.Int, intSample, func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
			a, b := exprbox.Unbox[int64](args[0]), exprbox.Unbox[int64](args[1])
			if (op == "/" || op == "%") && b == 0 {
				return exprbox.Box{}, fmt.Errorf("arithmetic: division by zero in %q", op)
			}
			return exprbox.New(t.Int, fn(a, b)), nil
		})
	}
	floatBinaryAny := func(op string, lhs, rhs exprbox.TypeID, fn func(a, b float64) float64) calculus.BinaryEntry {
		return binary(op, lhs, rhs, floatSample, func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(t.Float, fn(asFloat(t, args[0]), asFloat(t, args[1]))), nil
		})
	}
	cmp := func(op string, lhs, rhs exprbox.TypeID, fn func(a, b float64) bool) calculus.BinaryEntry {
		return binary(op, lhs, rhs, boolSample, func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(t.Bool, fn(asFloat(t, args[0]), asFloat(t, args[1]))), nil
		})
	}

	add := func(a, b float64) float64 { return a + b }
	sub := func(a, b float64) float64 { return a - b }
	mul := func(a, b float64) float64 { return a * b }
	div := func(a, b float64) float64 { return a / b }

	eq := func(a, b float64) bool { return a == b }
	ne := func(a, b float64) bool { return a != b }
	lt := func(a, b float64) bool { return a < b }
	gt := func(a, b float64) bool { return a > b }
	le := func(a, b float64) bool { return a <= b }
	ge := func(a, b float64) bool { return a >= b }

	var binaries []calculus.BinaryEntry
	binaries = append(binaries,
		intBinary("+", func(a, b int64) int64 { return a + b }),
		intBinary("-", func(a, b int64) int64 { return a - b }),
		intBinary("*", func(a, b int64) int64 { return a * b }),
		intBinary("/", func(a, b int64) int64 { return a / b }),
		intBinary("%", func(a, b int64) int64 { return a % b }),
	)
	for _, pair := range [][2]exprbox.TypeID{{t.Float, t.Float}, {t.Int, t.Float}, {t.Float, t.Int}} {
		binaries = append(binaries,
			floatBinaryAny("+", pair[0], pair[1], add),
			floatBinaryAny("-", pair[0], pair[1], sub),
			floatBinaryAny("*", pair[0], pair[1], mul),
			floatBinaryAny("/", pair[0], pair[1], div),
		)
	}
	for _, pair := range [][2]exprbox.TypeID{{t.Int, t.Int}, {t.Float, t.Float}, {t.Int, t.Float}, {t.Float, t.Int}} {
		binaries = append(binaries,
			cmp("==", pair[0], pair[1], eq),
			cmp("!=", pair[0], pair[1], ne),
			cmp("<", pair[0], pair[1], lt),
			cmp(">", pair[0], pair[1], gt),
			cmp("<=", pair[0], pair[1], le),
			cmp(">=", pair[0], pair[1], ge),
		)
	}

	unaries := []calculus.UnaryEntry{
		{Operator: "-", Operand: t.Int, Result: intSample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
				return exprbox.New(t.Int, -exprbox.Unbox[int64](args[0])), nil
			}},
		{Operator: "+", Operand: t.Int, Result: intSample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) { return args[0], nil }},
		{Operator: "-", Operand: t.Float, Result: floatSample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
				return exprbox.New(t.Float, -exprbox.Unbox[float64](args[0])), nil
			}},
		{Operator: "+", Operand: t.Float, Result: floatSample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) { return args[0], nil }},
	}

	isZero := func(typeID exprbox.TypeID) func(exprbox.Box) bool {
		return func(b exprbox.Box) bool {
			if typeID == intSample.TypeID() {
				return exprbox.Unbox[int64](b) == 0
			}
			return exprbox.Unbox[float64](b) == 0
		}
	}
	isOne := func(typeID exprbox.TypeID) func(exprbox.Box) bool {
		return func(b exprbox.Box) bool {
			if typeID == intSample.TypeID() {
				return exprbox.Unbox[int64](b) == 1
			}
			return exprbox.Unbox[float64](b) == 1
		}
	}

	var constOpt []calculus.ConstOptimization
	for _, typeID := range []exprbox.TypeID{t.Int, t.Float} {
		constOpt = append(constOpt,
			calculus.ConstOptimization{Operator: "+", ConstType: typeID, On: calculus.SideEither, Predicate: isZero(typeID), Fold: exprast.FoldToOperand},
			calculus.ConstOptimization{Operator: "*", ConstType: typeID, On: calculus.SideEither, Predicate: isOne(typeID), Fold: exprast.FoldToOperand},
			calculus.ConstOptimization{Operator: "*", ConstType: typeID, On: calculus.SideEither, Predicate: isZero(typeID), Fold: exprast.FoldToConstant},
		)
	}

	return calculus.NewPlugin(calculus.Table{
		Name:     "arithmetic",
		Binary:   binaries,
		Unary:    unaries,
		ConstOpt: constOpt,
	})
}
