// Package exprast implements the AST node types of spec.md §3/§4.3/§4.4:
// a discriminated {Literal, Identifier, Function, UnaryOp, BinaryOp,
// Ternary} tree, its pure-rewrite Optimize pass, and its central Assemble
// algorithm — walking the tree post-order, appending normalized-source
// text and VM instructions in lock-step while consulting the compiler's
// plug-in chain through the Assembler interface.
//
// Per the "cyclic ownership" design note (spec.md §9), the AST owns no
// callback and no Program: every side effect during assembly happens
// through the Assembler interface, which internal/exprcomp implements.
package exprast

import "github.com/cwbudde/go-expr/internal/exprbox"

// NumberHint records how a numeric literal was originally written, so
// normalization can preserve or force a base independent of the literal's
// value (spec.md §4.4, SPEC_FULL.md SUPPLEMENTED FEATURES #2).
type NumberHint int

const (
	HintNone NumberHint = iota
	HintHex
	HintOctal
	HintBinary
	HintScientific
)

// Node is any AST node. Source positions are byte offsets into the
// original expression text (spec.md §3).
type Node interface {
	Pos() int
}

// Literal is a constant value written directly in the source text.
type Literal struct {
	Value    exprbox.Box
	Hint     NumberHint
	position int
}

func NewLiteral(value exprbox.Box, hint NumberHint, pos int) *Literal {
	return &Literal{Value: value, Hint: hint, position: pos}
}

func (n *Literal) Pos() int { return n.position }

// Identifier is a bare name, compiled as a zero-argument Function request.
type Identifier struct {
	Name     string
	position int
}

func NewIdentifier(name string, pos int) *Identifier { return &Identifier{Name: name, position: pos} }
func (n *Identifier) Pos() int                        { return n.position }

// Function is a call `name(args...)`.
type Function struct {
	Name     string
	Args     []Node
	position int
}

func NewFunction(name string, args []Node, pos int) *Function {
	return &Function{Name: name, Args: args, position: pos}
}
func (n *Function) Pos() int { return n.position }

// UnaryOp is a prefix operator application.
type UnaryOp struct {
	Operator string
	// Verbal is the original verbal-alias spelling the parser matched
	// (e.g. "not"), empty when Operator was scanned directly as a
	// symbolic glyph. Normalization preserves this spelling unless the
	// verbal-to-symbolic flag asks for the canonical glyph instead.
	Verbal   string
	Arg      Node
	position int
}

func NewUnaryOp(op string, arg Node, pos int) *UnaryOp { return &UnaryOp{Operator: op, Arg: arg, position: pos} }

// NewUnaryOpVerbal is NewUnaryOp for an operator the parser matched
// through its verbal-alias table.
func NewUnaryOpVerbal(op, verbal string, arg Node, pos int) *UnaryOp {
	return &UnaryOp{Operator: op, Verbal: verbal, Arg: arg, position: pos}
}
func (n *UnaryOp) Pos() int { return n.position }

// BinaryOp is an infix operator application, including the subscript
// operator "[]".
type BinaryOp struct {
	Operator string
	// Verbal is the original verbal-alias spelling the parser matched
	// (e.g. "and", "mod"), empty when Operator was scanned directly as a
	// symbolic glyph.
	Verbal   string
	Lhs, Rhs Node
	position int
}

func NewBinaryOp(op string, lhs, rhs Node, pos int) *BinaryOp {
	return &BinaryOp{Operator: op, Lhs: lhs, Rhs: rhs, position: pos}
}

// NewBinaryOpVerbal is NewBinaryOp for an operator the parser matched
// through its verbal-alias table.
func NewBinaryOpVerbal(op, verbal string, lhs, rhs Node, pos int) *BinaryOp {
	return &BinaryOp{Operator: op, Verbal: verbal, Lhs: lhs, Rhs: rhs, position: pos}
}
func (n *BinaryOp) Pos() int { return n.position }

// Ternary is the Q ? T : F conditional.
type Ternary struct {
	Q, T, F         Node
	QuestionMarkPos int
	ColonPos        int
	position        int
}

func NewTernary(q, t, f Node, qmPos, colonPos, pos int) *Ternary {
	return &Ternary{Q: q, T: t, F: f, QuestionMarkPos: qmPos, ColonPos: colonPos, position: pos}
}
func (n *Ternary) Pos() int { return n.position }
