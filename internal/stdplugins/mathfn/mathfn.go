// Package mathfn is the built-in calculus content library for math
// functions (original_source/src/alib/expressions/plugins/math.hpp):
// Abs, Sign, Ceil, Floor, Round, Min, Max, Sqrt, the PI/E constants, and
// Random. The original's much larger trigonometric/exponential surface
// (Sin, Cos, Tan, Exp, Log, ...) is not reproduced — see DESIGN.md for that
// scope decision; this subset is enough to demonstrate every shape the
// calculus table supports (zero-arg constant, fixed-arity function,
// compile-time-invokable vs. not).
package mathfn

import (
	"math"
	"math/rand"

	"github.com/cwbudde/go-expr/internal/calculus"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// New returns the math calculus plug-in over floatType (the Compiler's
// Float type) and intType (used for Sign's integer result).
func New(floatType, intType exprbox.TypeID) exprplugin.CompilePlugin {
	flt := func(v float64) exprbox.Box { return exprbox.New(floatType, v) }
	floatSample := flt(0)
	intSample := exprbox.New(intType, int64(0))

	asFloat := func(b exprbox.Box) float64 { return exprbox.Unbox[float64](b) }

	unaryFloat := func(name string, fn func(float64) float64) calculus.FuncEntry {
		return calculus.FuncEntry{
			Name: name, ArgTypes: []exprbox.TypeID{floatType}, Result: floatSample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
				return flt(fn(asFloat(a[0]))), nil
			},
		}
	}

	funcs := []calculus.FuncEntry{
		unaryFloat("Abs", math.Abs),
		unaryFloat("Ceil", math.Ceil),
		unaryFloat("Floor", math.Floor),
		unaryFloat("Round", math.Round),
		unaryFloat("Sqrt", math.Sqrt),
		{
			Name: "Sign", ArgTypes: []exprbox.TypeID{floatType}, Result: intSample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
				v := asFloat(a[0])
				switch {
				case v > 0:
					return exprbox.New(intType, int64(1)), nil
				case v < 0:
					return exprbox.New(intType, int64(-1)), nil
				default:
					return exprbox.New(intType, int64(0)), nil
				}
			},
		},
		{
			Name: "Min", ArgTypes: []exprbox.TypeID{floatType, floatType}, Result: floatSample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
				return flt(math.Min(asFloat(a[0]), asFloat(a[1]))), nil
			},
		},
		{
			Name: "Max", ArgTypes: []exprbox.TypeID{floatType, floatType}, Result: floatSample, CTInvokable: true,
			Callback: func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
				return flt(math.Max(asFloat(a[0]), asFloat(a[1]))), nil
			},
		},
		{
			// Random is deliberately not CTInvokable: folding it at compile
			// time would bake one random draw into every future evaluation.
			Name: "Random", Result: floatSample, CTInvokable: false,
			Callback: func(_ *exprscope.Scope, _ []exprbox.Box) (exprbox.Box, error) {
				return flt(rand.Float64()), nil
			},
		},
	}

	consts := []calculus.ConstFunc{
		{Name: "PI", Result: floatSample, Value: flt(math.Pi)},
		{Name: "E", Result: floatSample, Value: flt(math.E)},
	}

	return calculus.NewPlugin(calculus.Table{
		Name:   "math",
		Consts: consts,
		Funcs:  funcs,
	})
}
