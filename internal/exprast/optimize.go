package exprast

// Optimize returns a rewritten tree with every purely syntactic
// simplification flags enables applied. It recurses into every node's
// children first (so a fold inside an operand is visible to its parent)
// and never touches node identity, scope, or the instruction stream —
// that is Assemble's job.
func Optimize(n Node, flags NormFlags, numeric NumericKinds) Node {
	switch v := n.(type) {
	case *Literal:
		return v
	case *Identifier:
		return v
	case *Function:
		for i, arg := range v.Args {
			v.Args[i] = Optimize(arg, flags, numeric)
		}
		return v
	case *UnaryOp:
		v.Arg = Optimize(v.Arg, flags, numeric)
		return optimizeUnary(v, flags, numeric)
	case *BinaryOp:
		v.Lhs = Optimize(v.Lhs, flags, numeric)
		v.Rhs = Optimize(v.Rhs, flags, numeric)
		return v
	case *Ternary:
		v.Q = Optimize(v.Q, flags, numeric)
		v.T = Optimize(v.T, flags, numeric)
		v.F = Optimize(v.F, flags, numeric)
		return v
	default:
		return n
	}
}

func optimizeUnary(u *UnaryOp, flags NormFlags, numeric NumericKinds) Node {
	if !flags.Has(FoldUnaryOnNumberLiterals) {
		return u
	}
	if u.Operator != "+" && u.Operator != "-" {
		return u
	}
	lit, ok := u.Arg.(*Literal)
	if !ok {
		return u
	}
	if u.Operator == "+" {
		// Unary plus never changes the value; drop it outright.
		return lit
	}
	folded, ok := numeric.negate(lit)
	if !ok {
		return u
	}
	return NewLiteral(folded, lit.Hint, u.Pos())
}
