package exprcomp

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/go-expr/internal/exprprog"
)

// TestCompileNormalizedSourceSnapshot pins the normalizer's exact
// parenthesization/alias-resolution/literal-rendering output across a
// handful of representative expressions, the same way the teacher's
// internal/interp/fixture_test.go snapshots interpreter output rather than
// hand-writing long expected strings.
func TestCompileNormalizedSourceSnapshot(t *testing.T) {
	c := New()
	arithmeticPlugin(c)

	texts := []string{
		"1+2*3",
		"(1+2)*3",
		"-1 - -1",
	}
	for _, text := range texts {
		prog, err := c.Compile(text)
		if err != nil {
			t.Fatalf("Compile(%q): %v", text, err)
		}
		snaps.MatchSnapshot(t, text, prog.Normalized)
	}
}

func TestDecompileListingSnapshot(t *testing.T) {
	c := New()
	arithmeticPlugin(c)

	prog, err := c.Compile("(2 + 3) - 1")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	snaps.MatchSnapshot(t, exprprog.Decompile(prog))
}
