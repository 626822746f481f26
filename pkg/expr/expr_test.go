package expr_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/stdplugins/jsonhost"
	"github.com/cwbudde/go-expr/pkg/expr"
)

func TestCompileAndEvaluateArithmetic(t *testing.T) {
	c := expr.New()
	e, err := c.Compile("(2 + 3) * 4")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	scope := c.NewScope(nil)
	result, err := e.Evaluate(scope)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := exprbox.Unbox[int64](result); got != 20 {
		t.Fatalf("got %v, want 20", got)
	}
}

func TestNormalizedSourceInsertsSpacesAroundOperators(t *testing.T) {
	c := expr.New()
	e, err := c.Compile("1+2*3")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got, want := e.NormalizedSource(), "1 + 2 * 3"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecompileProgramListsInstructions(t *testing.T) {
	c := expr.New()
	e, err := c.Compile(`UCase("abc")`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	listing := e.DecompileProgram()
	if !strings.Contains(listing, "UCase") {
		t.Fatalf("expected the decompiled listing to name the called function, got:\n%s", listing)
	}
}

func TestSourcePositionOfInstructionIsWithinBounds(t *testing.T) {
	c := expr.New()
	e, err := c.Compile("1 + 2")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	pos := e.SourcePositionOfInstruction(0)
	if pos < 0 || pos > len(e.NormalizedSource()) {
		t.Fatalf("got position %d out of bounds for %q", pos, e.NormalizedSource())
	}
	if p := e.SourcePositionOfInstruction(-1); p != -1 {
		t.Fatalf("got %d, want -1 for an out-of-range instruction", p)
	}
}

func TestNamedExpressionRoundTrip(t *testing.T) {
	c := expr.New()
	c.AddNamed("total", "10 + 5")
	e, err := c.Compile(`*"total" + 1`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	scope := c.NewScope(nil)
	result, err := e.Evaluate(scope)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := exprbox.Unbox[int64](result); got != 16 {
		t.Fatalf("got %v, want 16", got)
	}
}

func TestWithoutStandardLibraryLeavesNoOperators(t *testing.T) {
	c := expr.New(expr.WithoutStandardLibrary())
	if _, err := c.Compile("1 + 2"); err == nil {
		t.Fatal("expected compiling '1 + 2' to fail with no arithmetic plug-in registered")
	}
}

func TestJSONHostDataRoundTripsThroughScope(t *testing.T) {
	c := expr.New()
	e, err := c.Compile(`Json("name")`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	doc := &jsonhost.Document{Text: `{"name":"Ada"}`}
	scope := c.NewScope(doc)
	result, err := e.Evaluate(scope)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := exprbox.Unbox[string](result); got != "Ada" {
		t.Fatalf("got %q, want Ada", got)
	}
}
