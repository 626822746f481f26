// Package jsonhost is the built-in calculus content library demonstrating
// the "reference to host-owned data" path spec.md §3 describes only in the
// abstract, and the supplemented ScopeString surface (SPEC_FULL.md
// SUPPLEMENTED FEATURES #5, original_source's scopestring.hpp): Json(path)
// reads a value out of a JSON document bound as a Scope's HostData, and
// JsonSet(path, value) returns a new document with that path rewritten.
// Neither is compile-time-invokable: both depend on per-call HostData that
// does not exist until Evaluate runs.
package jsonhost

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-expr/internal/calculus"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// Document is the HostData shape Json/JsonSet expect a Scope to carry: the
// raw JSON text the host bound for this evaluation.
type Document struct {
	Text string
}

func document(scope *exprscope.Scope) (*Document, error) {
	doc, ok := scope.HostData.(*Document)
	if !ok || doc == nil {
		return nil, fmt.Errorf("jsonhost: Scope.HostData is not a *jsonhost.Document")
	}
	return doc, nil
}

func box(strType, intType, floatType, boolType exprbox.TypeID, v gjson.Result) exprbox.Box {
	switch v.Type {
	case gjson.Number:
		if v.Num == float64(int64(v.Num)) {
			return exprbox.New(intType, int64(v.Num))
		}
		return exprbox.New(floatType, v.Num)
	case gjson.True, gjson.False:
		return exprbox.New(boolType, v.Bool())
	case gjson.Null:
		return exprbox.Box{}
	default:
		return exprbox.New(strType, v.String())
	}
}

// New returns the json-host calculus plug-in. strType/intType/floatType/
// boolType are the Compiler's bootstrapped scalar types, used to box
// whatever value a JSON path resolves to.
func New(strType, intType, floatType, boolType exprbox.TypeID) exprplugin.CompilePlugin {
	strSample := exprbox.New(strType, "")

	funcs := []calculus.FuncEntry{
		{
			Name: "Json", ArgTypes: []exprbox.TypeID{strType}, Result: strSample, CTInvokable: false,
			Callback: func(scope *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
				doc, err := document(scope)
				if err != nil {
					return exprbox.Box{}, err
				}
				path := exprbox.Unbox[string](a[0])
				result := gjson.Get(doc.Text, path)
				if !result.Exists() {
					return exprbox.Box{}, fmt.Errorf("jsonhost: path %q not found", path)
				}
				return box(strType, intType, floatType, boolType, result), nil
			},
		},
		{
			Name: "JsonSet", ArgTypes: []exprbox.TypeID{strType, strType}, Result: strSample, CTInvokable: false,
			Callback: func(scope *exprscope.Scope, a []exprbox.Box) (exprbox.Box, error) {
				doc, err := document(scope)
				if err != nil {
					return exprbox.Box{}, err
				}
				path := exprbox.Unbox[string](a[0])
				value := exprbox.Unbox[string](a[1])
				updated, err := sjson.Set(doc.Text, path, value)
				if err != nil {
					return exprbox.Box{}, fmt.Errorf("jsonhost: JsonSet(%q): %w", path, err)
				}
				doc.Text = updated
				return exprbox.New(strType, updated), nil
			},
		},
	}

	return calculus.NewPlugin(calculus.Table{
		Name:  "jsonhost",
		Funcs: funcs,
	})
}
