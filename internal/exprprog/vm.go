package exprprog

import (
	"fmt"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprerr"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// Evaluate runs p against scope and returns the single resulting Box
// (spec.md §4.7). Any error raised by a callback is wrapped with the
// originating instruction's normalized-source span and rethrown.
func Evaluate(p *Program, reg *exprbox.Registry, scope *exprscope.Scope) (exprbox.Box, error) {
	pc := 0
	for pc < len(p.Instructions) {
		in := &p.Instructions[pc]
		switch in.Op {
		case PushConstant:
			scope.Push(p.Constants[in.ConstIndex])
			pc++

		case CallFunction, CallUnary, CallBinary:
			args := scope.PopN(in.NArgs)
			result, err := in.Callback(scope, args)
			if err != nil {
				if exc, ok := err.(*exprerr.Exception); ok {
					if !exc.HasPos {
						exc.At(in.NormPos, p.Normalized)
					}
					return exprbox.Box{}, exc
				}
				return exprbox.Box{}, exprerr.New(exprerr.InternalVmError,
					fmt.Sprintf("callback %q failed", in.DebugName)).
					At(in.NormPos, p.Normalized).Wrap(err)
			}
			scope.Push(result)
			pc++

		case JumpIfFalse:
			cond := scope.Pop()
			if exprbox.IsTrue(reg, cond) {
				pc++
			} else {
				pc = in.Target
			}

		case Jump:
			pc = in.Target

		default:
			return exprbox.Box{}, exprerr.New(exprerr.InternalVmError,
				fmt.Sprintf("unknown opcode %d", in.Op))
		}
	}

	if scope.StackLen() != 1 {
		return exprbox.Box{}, exprerr.New(exprerr.InternalVmError,
			fmt.Sprintf("VM terminated with %d values on the stack, want 1", scope.StackLen()))
	}
	return scope.Pop(), nil
}
