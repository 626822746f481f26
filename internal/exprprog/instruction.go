// Package exprprog implements the compiled Program (a flat instruction
// sequence plus constant pool), its stack-machine evaluator, and its
// linear disassembler (spec.md §3, §4.7). It follows the shape of the
// teacher's internal/bytecode package (opcode dispatch loop, explicit
// operand stack, columnar disassembly) cut down to the six instructions
// an expression program ever needs.
package exprprog

import (
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// OpCode identifies an instruction's semantics.
type OpCode int

const (
	PushConstant OpCode = iota
	CallFunction
	CallUnary
	CallBinary
	JumpIfFalse
	Jump
)

func (op OpCode) String() string {
	switch op {
	case PushConstant:
		return "PUSH_CONSTANT"
	case CallFunction:
		return "CALL_FUNCTION"
	case CallUnary:
		return "CALL_UNARY"
	case CallBinary:
		return "CALL_BINARY"
	case JumpIfFalse:
		return "JUMP_IF_FALSE"
	case Jump:
		return "JUMP"
	default:
		return "?"
	}
}

// Instruction is one VM instruction. Not every field is meaningful for
// every OpCode: ConstIndex is used by PushConstant, Callback/NArgs/Result/
// DebugName by the three CALL_* variants, Target by the two jumps.
type Instruction struct {
	Callback   exprscope.Func
	DebugName  string
	Result     exprbox.Box
	Op         OpCode
	ConstIndex int // index into the Program's constant pool, for PushConstant
	NArgs      int
	Target     int // instruction index, for JumpIfFalse/Jump
	NormPos    int // byte offset into the normalized source this instruction renders
	NormEndPos int
}
