package exprast

import (
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprprog"
)

// atomPrecedence is the binding power assigned to any node that is never
// parenthesized as someone else's operand (literals, identifiers, function
// calls, and unary operator applications bind tighter than every binary
// operator declared through the plug-in chain).
const atomPrecedence = 1 << 20

// ternaryPrecedence is lower than every binary operator's declared
// precedence, so a ternary nested inside a binary expression is always
// bracketed and a binary expression nested inside a ternary branch never
// needs bracketing on that account alone.
const ternaryPrecedence = -1

// Assemble walks n post-order, appending normalized source text and VM
// instructions to asm in lock-step (spec.md §4.4), and returns the
// description of the whole subtree's result the way an already-assembled
// operand is described to a plug-in (exprplugin.ArgInfo).
func Assemble(n Node, asm Assembler) (exprplugin.ArgInfo, error) {
	switch v := n.(type) {
	case *Literal:
		return assembleLiteral(v, asm)
	case *Identifier:
		return assembleIdentifier(v, asm)
	case *Function:
		return assembleFunction(v, asm)
	case *UnaryOp:
		return assembleUnary(v, asm)
	case *BinaryOp:
		return assembleBinary(v, asm)
	case *Ternary:
		return assembleTernary(v, asm)
	default:
		panic("exprast: Assemble called on an unknown node type")
	}
}

func assembleLiteral(n *Literal, asm Assembler) (exprplugin.ArgInfo, error) {
	start := asm.TextLen()
	asm.Text(asm.RenderLiteral(n.Value, n.Hint))
	asm.Builder().EmitConstant(n.Value, start, asm.TextLen())
	return exprplugin.ArgInfo{Result: n.Value, Value: n.Value, Const: true}, nil
}

func assembleIdentifier(n *Identifier, asm Assembler) (exprplugin.ArgInfo, error) {
	start := asm.TextLen()
	asm.Text(n.Name)

	info := &exprplugin.FunctionInfo{Name: n.Name, Pos: n.position}
	info.NoFold = asm.NoOptimization()
	if err := asm.ResolveFunction(info); err != nil {
		return exprplugin.ArgInfo{}, err
	}

	if asm.Flags().Has(ReplaceFunctionNames) && info.DebugName != "" && info.DebugName != n.Name {
		asm.ReplaceText(start, asm.TextLen(), info.DebugName)
	}

	end := asm.TextLen()
	if info.IsConstant {
		asm.Builder().EmitConstant(info.ConstantValue, start, end)
	} else {
		asm.Builder().EmitCall(exprprog.CallFunction, info.Callback, 0, info.Result, info.DebugName, start, end)
	}
	return exprplugin.ArgInfo{Result: info.Result, Value: info.ConstantValue, Const: info.IsConstant}, nil
}

func assembleFunction(n *Function, asm Assembler) (exprplugin.ArgInfo, error) {
	start := asm.TextLen()
	mark := asm.Builder().Mark()

	asm.Text(n.Name)
	asm.Text("(")
	args := make([]exprplugin.ArgInfo, len(n.Args))
	for i, a := range n.Args {
		if i > 0 {
			asm.Text(", ")
		}
		argInfo, err := Assemble(a, asm)
		if err != nil {
			return exprplugin.ArgInfo{}, err
		}
		args[i] = argInfo
	}
	asm.Text(")")
	end := asm.TextLen()

	info := &exprplugin.FunctionInfo{Name: n.Name, Args: args, Pos: n.position}
	info.NoFold = asm.NoOptimization()
	if err := asm.ResolveFunction(info); err != nil {
		return exprplugin.ArgInfo{}, err
	}

	if info.IsConstant {
		asm.Builder().Truncate(mark)
		asm.Builder().EmitConstant(info.ConstantValue, start, end)
	} else {
		asm.Builder().EmitCall(exprprog.CallFunction, info.Callback, len(args), info.Result, info.DebugName, start, end)
	}
	return exprplugin.ArgInfo{Result: info.Result, Value: info.ConstantValue, Const: info.IsConstant}, nil
}

func assembleUnary(n *UnaryOp, asm Assembler) (exprplugin.ArgInfo, error) {
	start := asm.TextLen()
	mark := asm.Builder().Mark()

	opText := n.Operator
	if n.Verbal != "" && !asm.Flags().Has(VerbalOperatorsToSymbolic) {
		opText = n.Verbal
	}
	opStart := asm.TextLen()
	asm.Text(opText)
	opEnd := asm.TextLen()

	argInfo, err := writeOperand(asm, n.Arg, atomPrecedence, false)
	if err != nil {
		return exprplugin.ArgInfo{}, err
	}
	end := asm.TextLen()

	info := &exprplugin.UnaryOpInfo{Operator: n.Operator, Arg: argInfo, Pos: n.position}
	info.NoFold = asm.NoOptimization()
	if err := asm.ResolveUnary(info); err != nil {
		return exprplugin.ArgInfo{}, err
	}

	if asm.Flags().Has(ReplaceAliasOperators) && info.RewrittenOperator != "" && info.RewrittenOperator != opText {
		asm.ReplaceText(opStart, opEnd, info.RewrittenOperator)
		if delta := len(info.RewrittenOperator) - (opEnd - opStart); delta != 0 {
			asm.Builder().ShiftNormPos(mark, delta)
			end += delta
		}
	}

	if info.IsConstant {
		asm.Builder().Truncate(mark)
		asm.Builder().EmitConstant(info.ConstantValue, start, end)
	} else {
		asm.Builder().EmitCall(exprprog.CallUnary, info.Callback, 1, info.Result, info.DebugName, start, end)
	}
	return exprplugin.ArgInfo{Result: info.Result, Value: info.ConstantValue, Const: info.IsConstant}, nil
}

func assembleBinary(n *BinaryOp, asm Assembler) (exprplugin.ArgInfo, error) {
	start := asm.TextLen()
	prec := asm.Precedence(n.Operator)
	markStart := asm.Builder().Mark()

	lhsInfo, err := writeOperand(asm, n.Lhs, prec, false)
	if err != nil {
		return exprplugin.ArgInfo{}, err
	}
	markLhsEnd := asm.Builder().Mark()

	opText := n.Operator
	if n.Verbal != "" && !asm.Flags().Has(VerbalOperatorsToSymbolic) {
		opText = n.Verbal
	}
	asm.Text(" ")
	opStart := asm.TextLen()
	asm.Text(opText)
	opEnd := asm.TextLen()
	asm.Text(" ")

	rhsInfo, err := writeOperand(asm, n.Rhs, prec, true)
	if err != nil {
		return exprplugin.ArgInfo{}, err
	}
	markRhsEnd := asm.Builder().Mark()
	end := asm.TextLen()

	info := &exprplugin.BinaryOpInfo{Operator: n.Operator, Lhs: lhsInfo, Rhs: rhsInfo, Pos: n.position}
	info.NoFold = asm.NoOptimization()
	if err := asm.ResolveBinary(info); err != nil {
		return exprplugin.ArgInfo{}, err
	}

	if asm.Flags().Has(ReplaceAliasOperators) && info.RewrittenOperator != "" && info.RewrittenOperator != opText {
		asm.ReplaceText(opStart, opEnd, info.RewrittenOperator)
		if delta := len(info.RewrittenOperator) - (opEnd - opStart); delta != 0 {
			asm.Builder().ShiftNormPos(markLhsEnd, delta)
			end += delta
		}
	}

	switch {
	case info.IsConstant:
		asm.Builder().Truncate(markStart)
		asm.Builder().EmitConstant(info.ConstantValue, start, end)
		return exprplugin.ArgInfo{Result: info.ConstantValue, Value: info.ConstantValue, Const: true}, nil

	case !asm.NoOptimization() && lhsInfo.Const != rhsInfo.Const:
		constOnLhs := lhsInfo.Const
		constValue := lhsInfo.Value
		if !constOnLhs {
			constValue = rhsInfo.Value
		}
		if fold, ok := asm.BinaryConstOptimize(n.Operator, constOnLhs, constValue); ok {
			switch fold {
			case FoldToConstant:
				asm.Builder().Truncate(markStart)
				asm.Builder().EmitConstant(constValue, start, end)
				return exprplugin.ArgInfo{Result: constValue, Value: constValue, Const: true}, nil
			case FoldToOperand:
				foldBinaryToOperand(asm.Builder(), markStart, markLhsEnd, markRhsEnd, constOnLhs)
				if constOnLhs {
					return rhsInfo, nil
				}
				return lhsInfo, nil
			}
		}
		fallthrough

	default:
		asm.Builder().EmitCall(exprprog.CallBinary, info.Callback, 2, info.Result, info.DebugName, start, end)
		return exprplugin.ArgInfo{Result: info.Result, Const: false}, nil
	}
}

// foldBinaryToOperand collapses a partially-constant binary expression down
// to whichever side's already-emitted instructions are the non-constant
// "operand" side, per Builder's checkpoint/rollback/splice primitives
// (spec.md §4.4's constant-propagation optimization). The normalized text
// already written for both sides and the operator is left untouched: only
// the instruction stream collapses, so the textual form stays the literal
// "k op x" the user wrote while the compiled program behaves as if they had
// written just "x" (or "k", for the fold-to-constant case handled above).
func foldBinaryToOperand(b *exprprog.Builder, markStart, markLhsEnd, markRhsEnd int, constOnLhs bool) {
	if !constOnLhs {
		// The operand (lhs) already occupies [markStart, markLhsEnd) at the
		// front of the stream; simply discard the constant rhs and the call.
		b.Truncate(markLhsEnd)
		return
	}
	// The operand (rhs) sits after the constant lhs; slice it out and
	// re-append at markStart, shifting any internal jump targets down by
	// the width of the discarded lhs instructions.
	operand := b.Slice(markLhsEnd, markRhsEnd)
	b.Truncate(markStart)
	b.AppendShifted(operand, markStart-markLhsEnd)
}

func assembleTernary(n *Ternary, asm Assembler) (exprplugin.ArgInfo, error) {
	mark := asm.Builder().Mark()

	qInfo, err := writeOperand(asm, n.Q, ternaryPrecedence+1, false)
	if err != nil {
		return exprplugin.ArgInfo{}, err
	}

	asm.Text(" ? ")
	jf := asm.Builder().EmitJumpIfFalse(asm.TextLen(), asm.TextLen())

	tInfo, err := writeOperand(asm, n.T, ternaryPrecedence, false)
	if err != nil {
		return exprplugin.ArgInfo{}, err
	}
	jmp := asm.Builder().EmitJump(asm.TextLen(), asm.TextLen())
	asm.Builder().PatchJumpTarget(jf)

	asm.Text(" : ")
	fInfo, err := writeOperand(asm, n.F, ternaryPrecedence, false)
	if err != nil {
		return exprplugin.ArgInfo{}, err
	}
	asm.Builder().PatchJumpTarget(jmp)

	// The ternary's static result sample is the "then" branch's; both
	// branches are expected to already agree on type (the compiler's
	// auto-cast resolution, not this package, is responsible for that).
	result := tInfo.Result
	if !asm.NoOptimization() && qInfo.Const {
		// Keep only the chosen branch's instructions, moved to where the
		// condition began; the normalized text keeps all three operands.
		b := asm.Builder()
		chosen, from, to := fInfo, jmp+1, b.Len()
		if exprbox.IsTrue(asm.Registry(), qInfo.Value) {
			chosen, from, to = tInfo, jf+1, jmp
		}
		branch := b.Slice(from, to)
		b.Truncate(mark)
		b.AppendShifted(branch, mark-from)
		return chosen, nil
	}
	return exprplugin.ArgInfo{Result: result, Const: false}, nil
}

func writeOperand(asm Assembler, child Node, parentPrec int, isRhsOperand bool) (exprplugin.ArgInfo, error) {
	needsParens := childNeedsParens(asm, child, parentPrec, isRhsOperand)
	if needsParens {
		asm.Text("(")
	}
	info, err := Assemble(child, asm)
	if err != nil {
		return exprplugin.ArgInfo{}, err
	}
	if needsParens {
		asm.Text(")")
	}
	return info, nil
}

func childNeedsParens(asm Assembler, child Node, parentPrec int, isRhsOperand bool) bool {
	var childPrec int
	switch c := child.(type) {
	case *BinaryOp:
		childPrec = asm.Precedence(c.Operator)
	case *Ternary:
		childPrec = ternaryPrecedence
	default:
		childPrec = atomPrecedence
	}
	if asm.Flags().Has(AlwaysParenthesizeBinaryOps) && childPrec <= atomPrecedence {
		return childPrec != atomPrecedence
	}
	if childPrec < parentPrec {
		return true
	}
	if childPrec == parentPrec && isRhsOperand {
		return true
	}
	return false
}
