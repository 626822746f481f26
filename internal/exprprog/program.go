package exprprog

import (
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// Program is a compiled expression: its instruction sequence, constant
// pool, normalized source text and declared result type. A Program is
// immutable once returned by a Builder and may be evaluated concurrently
// from multiple goroutines provided each uses its own Scope (spec.md §5).
type Program struct {
	Instructions []Instruction
	Constants    []exprbox.Box
	Normalized   string
	ResultType   exprbox.Box
}

// Builder accumulates instructions and constants while an AST is being
// assembled, and supports the checkpoint/rollback/splice operations the
// constant-folding and const-propagation optimizations need (spec.md
// §4.4). It implements exprast.Assembler together with the text and
// plug-in-resolution pieces exprcomp.Compiler supplies.
type Builder struct {
	instructions []Instruction
	constants    []exprbox.Box
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Mark returns a checkpoint that Truncate can roll back to.
func (b *Builder) Mark() int { return len(b.instructions) }

// Len reports the current instruction count.
func (b *Builder) Len() int { return len(b.instructions) }

// Truncate discards every instruction emitted since checkpoint mark.
func (b *Builder) Truncate(mark int) { b.instructions = b.instructions[:mark] }

// Slice returns a copy of the instructions in [from, to).
func (b *Builder) Slice(from, to int) []Instruction {
	cp := make([]Instruction, to-from)
	copy(cp, b.instructions[from:to])
	return cp
}

// AppendShifted appends copies of instrs, adjusting any JUMP/JUMP_IF_FALSE
// target by delta — used when splicing a previously-assembled subtree's
// instructions to a new position in the stream (binary constant
// propagation, spec.md §4.4 "or by propagation to the ... subtree").
func (b *Builder) AppendShifted(instrs []Instruction, delta int) {
	for _, in := range instrs {
		if in.Op == Jump || in.Op == JumpIfFalse {
			in.Target += delta
		}
		b.instructions = append(b.instructions, in)
	}
}

// ShiftNormPos adds delta to the NormPos/NormEndPos of every instruction at
// index >= from, used when a normalization rewrite patches already-emitted
// text with a replacement of different byte length (spec.md §4.4 "replace
// alias operators").
func (b *Builder) ShiftNormPos(from, delta int) {
	if delta == 0 {
		return
	}
	for i := from; i < len(b.instructions); i++ {
		b.instructions[i].NormPos += delta
		b.instructions[i].NormEndPos += delta
	}
}

// EmitConstant pushes value into the constant pool and appends a
// PushConstant instruction referencing it.
func (b *Builder) EmitConstant(value exprbox.Box, normPos, normEnd int) {
	idx := len(b.constants)
	b.constants = append(b.constants, value)
	b.instructions = append(b.instructions, Instruction{
		Op: PushConstant, ConstIndex: idx, Result: value, NormPos: normPos, NormEndPos: normEnd,
	})
}

// EmitCall appends a CALL_FUNCTION/CALL_UNARY/CALL_BINARY instruction. op
// must be one of CallFunction, CallUnary or CallBinary.
func (b *Builder) EmitCall(op OpCode, cb exprscope.Func, nargs int, result exprbox.Box, debugName string, normPos, normEnd int) {
	b.instructions = append(b.instructions, Instruction{
		Op: op, Callback: cb, NArgs: nargs, Result: result, DebugName: debugName,
		NormPos: normPos, NormEndPos: normEnd,
	})
}

// EmitJumpIfFalse appends a placeholder JumpIfFalse instruction and
// returns its index, to be back-patched via PatchJumpTarget once the
// branch's end is known.
func (b *Builder) EmitJumpIfFalse(normPos, normEnd int) int {
	idx := len(b.instructions)
	b.instructions = append(b.instructions, Instruction{Op: JumpIfFalse, Target: -1, NormPos: normPos, NormEndPos: normEnd})
	return idx
}

// EmitJump appends a placeholder Jump instruction and returns its index.
func (b *Builder) EmitJump(normPos, normEnd int) int {
	idx := len(b.instructions)
	b.instructions = append(b.instructions, Instruction{Op: Jump, Target: -1, NormPos: normPos, NormEndPos: normEnd})
	return idx
}

// PatchJumpTarget back-patches the jump instruction at idx to target the
// current end of the instruction stream.
func (b *Builder) PatchJumpTarget(idx int) {
	b.instructions[idx].Target = len(b.instructions)
}

// Constants returns the accumulated constant pool.
func (b *Builder) Constants() []exprbox.Box { return b.constants }

// Build finalizes the instruction stream into an immutable Program.
func (b *Builder) Build(normalized string, resultType exprbox.Box) *Program {
	instrs := make([]Instruction, len(b.instructions))
	copy(instrs, b.instructions)
	consts := make([]exprbox.Box, len(b.constants))
	copy(consts, b.constants)
	return &Program{Instructions: instrs, Constants: consts, Normalized: normalized, ResultType: resultType}
}
