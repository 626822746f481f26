package exprcomp

import (
	"testing"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprerr"
	"github.com/cwbudde/go-expr/internal/exprprog"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

func TestNestedExpressionPrefixOperator(t *testing.T) {
	c := New(WithCompileFlags(AllowIdentifiersForNestedExpressions))
	arithmeticPlugin(c)
	c.AddNamed("total", "1 + 2")

	result := evalText(t, c, "*total + 10", nil)
	if got := exprbox.Unbox[int64](result); got != 13 {
		t.Fatalf("*total + 10 = %d, want 13", got)
	}
}

func TestNestedExpressionFunctionCallWithDefault(t *testing.T) {
	c := New()
	arithmeticPlugin(c)

	result := evalText(t, c, `Expression("missing", 42)`, nil)
	if got := exprbox.Unbox[int64](result); got != 42 {
		t.Fatalf("Expression(missing, 42) = %d, want 42", got)
	}
}

func TestNestedExpressionNotFoundWithoutDefault(t *testing.T) {
	c := New()
	arithmeticPlugin(c)

	prog, err := c.Compile(`Expression("missing")`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	scope := exprscope.New(c.Formatter(), nil)
	_, err = exprprog.Evaluate(prog, c.Registry(), scope)
	exc, ok := err.(*exprerr.Exception)
	if !ok || exc.Kind != exprerr.NestedExpressionNotFound {
		t.Fatalf("expected NestedExpressionNotFound, got %#v", err)
	}
}

func TestNestedExpressionThrowOverridesDefault(t *testing.T) {
	c := New()
	arithmeticPlugin(c)

	prog, err := c.Compile(`Expression("missing", 42, Throw())`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	scope := exprscope.New(c.Formatter(), nil)
	_, err = exprprog.Evaluate(prog, c.Registry(), scope)
	exc, ok := err.(*exprerr.Exception)
	if !ok || exc.Kind != exprerr.NestedExpressionNotFound {
		t.Fatalf("expected NestedExpressionNotFound even with a default present, got %#v", err)
	}
}

func TestNestedExpressionCircularReferenceRaises(t *testing.T) {
	c := New(WithCompileFlags(AllowIdentifiersForNestedExpressions))
	arithmeticPlugin(c)
	c.AddNamed("a", "*b + 1")
	c.AddNamed("b", "*a + 1")

	prog, err := c.Compile("*a")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	scope := exprscope.New(c.Formatter(), nil)
	_, err = exprprog.Evaluate(prog, c.Registry(), scope)
	exc, ok := err.(*exprerr.Exception)
	if !ok || exc.Kind != exprerr.CircularNestedExpression {
		t.Fatalf("expected CircularNestedExpression, got %#v", err)
	}
}

func TestNestedExpressionRemoveNamedInvalidatesCache(t *testing.T) {
	c := New()
	arithmeticPlugin(c)
	c.AddNamed("total", "1 + 2")
	if _, ok := c.GetNamed("total"); !ok {
		t.Fatalf("expected GetNamed to find the just-registered name")
	}

	c.RemoveNamed("total")
	if _, ok := c.GetNamed("total"); ok {
		t.Fatalf("expected GetNamed to fail after RemoveNamed")
	}

	prog, err := c.Compile(`Expression("total", -1)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	result, err := exprprog.Evaluate(prog, c.Registry(), exprscope.New(c.Formatter(), nil))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := exprbox.Unbox[int64](result); got != -1 {
		t.Fatalf("Expression(total, -1) after RemoveNamed = %d, want -1 (the default)", got)
	}
}
