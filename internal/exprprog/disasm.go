package exprprog

import (
	"fmt"
	"strings"
)

// Decompile renders p as a multi-column textual listing — PC, instruction,
// operand, source span — used by tests and diagnostics (spec.md §4.7).
func Decompile(p *Program) string {
	var sb strings.Builder
	for pc, in := range p.Instructions {
		span := sourceSpan(p.Normalized, in.NormPos, in.NormEndPos)
		switch in.Op {
		case PushConstant:
			fmt.Fprintf(&sb, "%4d  %-14s const[%d]  %q\n", pc, in.Op, in.ConstIndex, span)
		case CallFunction, CallUnary, CallBinary:
			fmt.Fprintf(&sb, "%4d  %-14s %s/%d  %q\n", pc, in.Op, in.DebugName, in.NArgs, span)
		case JumpIfFalse, Jump:
			fmt.Fprintf(&sb, "%4d  %-14s -> %d  %q\n", pc, in.Op, in.Target, span)
		default:
			fmt.Fprintf(&sb, "%4d  %-14s  %q\n", pc, in.Op, span)
		}
	}
	return sb.String()
}

func sourceSpan(normalized string, from, to int) string {
	if from < 0 || to > len(normalized) || from > to {
		return ""
	}
	return normalized[from:to]
}

// SourcePositionOfInstruction returns the normalized-source byte offset at
// which instruction i begins, for precise diagnostics (spec.md §6).
func SourcePositionOfInstruction(p *Program, i int) int {
	if i < 0 || i >= len(p.Instructions) {
		return -1
	}
	return p.Instructions[i].NormPos
}
