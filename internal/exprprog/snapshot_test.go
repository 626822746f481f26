package exprprog

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// TestDecompileSnapshot pins the disassembler's column layout the way the
// teacher's internal/interp/fixture_test.go pins interpreter output: a
// hand-written expected string would be brittle against formatting
// tweaks, so the listing is asserted against a recorded snapshot instead.
func TestDecompileSnapshot(t *testing.T) {
	_, intID := testRegistry()

	add := func(_ *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
		return exprbox.New(intID, exprbox.Unbox[int64](args[0])+exprbox.Unbox[int64](args[1])), nil
	}

	b := NewBuilder()
	b.EmitConstant(exprbox.New(intID, int64(40)), 0, 2)
	b.EmitConstant(exprbox.New(intID, int64(2)), 5, 6)
	b.EmitCall(CallBinary, add, 2, exprbox.New(intID, int64(0)), "+", 0, 6)
	prog := b.Build("40 + 2", exprbox.New(intID, int64(0)))

	snaps.MatchSnapshot(t, Decompile(prog))
}

// TestJumpIfFalseDecompileSnapshot pins the listing for a program that uses
// both jump instructions, exercising the disassembler's "-> target" column.
func TestJumpIfFalseDecompileSnapshot(t *testing.T) {
	_, intID := testRegistry()

	b := NewBuilder()
	b.EmitConstant(exprbox.New(intID, int64(1)), 0, 1)
	jf := b.EmitJumpIfFalse(2, 2)
	b.EmitConstant(exprbox.New(intID, int64(10)), 4, 6)
	j := b.EmitJump(0, 0)
	b.PatchJumpTarget(jf)
	b.EmitConstant(exprbox.New(intID, int64(20)), 9, 11)
	b.PatchJumpTarget(j)
	prog := b.Build("1 ? 10 : 20", exprbox.New(intID, int64(0)))

	snaps.MatchSnapshot(t, Decompile(prog))
}
