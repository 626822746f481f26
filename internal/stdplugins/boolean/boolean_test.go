package boolean_test

import (
	"testing"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprcomp"
	"github.com/cwbudde/go-expr/internal/exprprog"
	"github.com/cwbudde/go-expr/internal/exprscope"
	"github.com/cwbudde/go-expr/internal/stdplugins/arithmetic"
	"github.com/cwbudde/go-expr/internal/stdplugins/boolean"
)

func newCompiler(t *testing.T) *exprcomp.Compiler {
	t.Helper()
	c := exprcomp.New()
	c.AddPlugin(arithmetic.New(arithmetic.Types{Int: c.IntType(), Float: c.FloatType(), Bool: c.BoolType()}))
	c.AddPlugin(boolean.New(c.Registry(), c.BoolType(), c.IntType()))
	return c
}

func run(t *testing.T, c *exprcomp.Compiler, text string) exprbox.Box {
	t.Helper()
	prog, err := c.Compile(text)
	if err != nil {
		t.Fatalf("Compile(%q): %v", text, err)
	}
	scope := exprscope.New(c.Formatter(), nil)
	result, err := exprprog.Evaluate(prog, c.Registry(), scope)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", text, err)
	}
	return result
}

func TestAndOrEvaluateEagerly(t *testing.T) {
	c := newCompiler(t)
	cases := map[string]bool{
		"true && false": false,
		"true && true":  true,
		"false || false": false,
		"false || true":  true,
	}
	for text, want := range cases {
		if got := exprbox.Unbox[bool](run(t, c, text)); got != want {
			t.Errorf("%s: got %v, want %v", text, got, want)
		}
	}
}

func TestAndConstantFoldsOnFalseLeftOperand(t *testing.T) {
	c := newCompiler(t)
	prog, err := c.Compile("false && true")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(prog.Instructions) != 1 {
		t.Fatalf("expected constant folding to collapse to 1 instruction, got %d", len(prog.Instructions))
	}
}

func TestElvisOverIntegerPicksTruthyLeftOperand(t *testing.T) {
	c := newCompiler(t)
	if got := exprbox.Unbox[int64](run(t, c, "5 ?: 9")); got != 5 {
		t.Fatalf("got %v, want 5", got)
	}
	if got := exprbox.Unbox[int64](run(t, c, "0 ?: 9")); got != 9 {
		t.Fatalf("got %v, want 9", got)
	}
}

func TestElvisOverBooleanPicksTruthyLeftOperand(t *testing.T) {
	c := newCompiler(t)
	if got := exprbox.Unbox[bool](run(t, c, "true ?: false")); got != true {
		t.Fatalf("got %v, want true", got)
	}
	if got := exprbox.Unbox[bool](run(t, c, "false ?: true")); got != true {
		t.Fatalf("got %v, want true", got)
	}
}
