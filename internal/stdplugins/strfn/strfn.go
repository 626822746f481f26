// Package strfn is the built-in calculus content library for string
// functions (original_source/src/alib/expressions/plugins/strings.hpp):
// Trim, UCase/LCase, Substring, IndexOf, Count, StartsWith/EndsWith,
// Format, Split (standing in for the original's Token/Tokenize pair), plus
// "+" as string concatenation. Every function here is pure and
// constant-foldable.
package strfn

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-expr/internal/calculus"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// New returns the string calculus plug-in over strType (the Compiler's
// String type) and intType/boolType for argument/result shapes that aren't
// themselves strings.
func New(strType, intType, boolType exprbox.TypeID) exprplugin.CompilePlugin {
	str := func(s string) exprbox.Box { return exprbox.New(strType, s) }
	strSample := str("")
	intSample := exprbox.New(intType, int64(0))
	boolSample := exprbox.New(boolType, false)

	arg := func(b exprbox.Box) string { return exprbox.Unbox[string](b) }
	argInt := func(b exprbox.Box) int64 { return exprbox.Unbox[int64](b) }

	fn := func(name string, argTypes []exprbox.TypeID, variadic bool, result exprbox.Box, cb exprscope.Func) calculus.FuncEntry {
		return calculus.FuncEntry{Name: name, ArgTypes: argTypes, Variadic: variadic, Result: result, CTInvokable: true, Callback: cb}
	}

	funcs := []calculus.FuncEntry{
		fn("Trim", []exprbox.TypeID{strType}, false, strSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return str(strings.TrimSpace(arg(a[0]))), nil
		}),
		fn("UCase", []exprbox.TypeID{strType}, false, strSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return str(strings.ToUpper(arg(a[0]))), nil
		}),
		fn("LCase", []exprbox.TypeID{strType}, false, strSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return str(strings.ToLower(arg(a[0]))), nil
		}),
		fn("Substring", []exprbox.TypeID{strType, intType, intType}, false, strSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			s := arg(a[0])
			start, length := int(argInt(a[1])), int(argInt(a[2]))
			if start < 0 {
				start = 0
			}
			if start > len(s) {
				start = len(s)
			}
			end := start + length
			if end > len(s) {
				end = len(s)
			}
			if end < start {
				end = start
			}
			return str(s[start:end]), nil
		}),
		fn("IndexOf", []exprbox.TypeID{strType, strType}, false, intSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(intType, int64(strings.Index(arg(a[0]), arg(a[1])))), nil
		}),
		fn("Count", []exprbox.TypeID{strType, strType}, false, intSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(intType, int64(strings.Count(arg(a[0]), arg(a[1])))), nil
		}),
		fn("StartsWith", []exprbox.TypeID{strType, strType}, false, boolSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(boolType, strings.HasPrefix(arg(a[0]), arg(a[1]))), nil
		}),
		fn("EndsWith", []exprbox.TypeID{strType, strType}, false, boolSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(boolType, strings.HasSuffix(arg(a[0]), arg(a[1]))), nil
		}),
		fn("Format", []exprbox.TypeID{strType, strType}, true, strSample, func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			vals := make([]any, len(a)-1)
			for i, b := range a[1:] {
				vals[i] = arg(b)
			}
			return str(fmt.Sprintf(arg(a[0]), vals...)), nil
		}),
		fn("Split", []exprbox.TypeID{strType, strType}, false, exprbox.NewArray(strType, []string(nil), 0), func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			parts := strings.Split(arg(a[0]), arg(a[1]))
			return exprbox.NewArray(strType, parts, int64(len(parts))), nil
		}),
	}

	concat := calculus.BinaryEntry{
		Operator: "+", Lhs: strType, Rhs: strType, Result: strSample, CTInvokable: true,
		Callback: func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return str(arg(a[0]) + arg(a[1])), nil
		},
	}
	eq := calculus.BinaryEntry{
		Operator: "==", Lhs: strType, Rhs: strType, Result: boolSample, CTInvokable: true,
		Callback: func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(boolType, arg(a[0]) == arg(a[1])), nil
		},
	}
	ne := calculus.BinaryEntry{
		Operator: "!=", Lhs: strType, Rhs: strType, Result: boolSample, CTInvokable: true,
		Callback: func(_ *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(boolType, arg(a[0]) != arg(a[1])), nil
		},
	}

	return calculus.NewPlugin(calculus.Table{
		Name:         "strings",
		MinAbbrevLen: 3,
		Funcs:        funcs,
		Binary:       []calculus.BinaryEntry{concat, eq, ne},
	})
}
