package exprast

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprerr"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprprog"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// testAsm is a minimal, test-only Assembler standing in for
// internal/exprcomp.Compiler: it resolves "+" and "*" on integers with
// constant folding, and "&&" on booleans with a const-propagation table
// (x && true -> x, x && false -> false), enough to exercise every branch
// of Assemble.
type testAsm struct {
	reg     *exprbox.Registry
	intID   exprbox.TypeID
	boolID  exprbox.TypeID
	text    strings.Builder
	builder *exprprog.Builder
	prec    map[string]int

	flags          NormFlags
	noOptimization bool
}

func newTestAsm() *testAsm {
	reg := exprbox.NewRegistry()
	intID := reg.Add("Integer", int64(0), exprbox.OpTable{
		Equals: func(a, b exprbox.Box) bool { return exprbox.Unbox[int64](a) == exprbox.Unbox[int64](b) },
	})
	boolID := reg.Add("Boolean", false, exprbox.OpTable{
		IsTrue: func(b exprbox.Box) bool { return exprbox.Unbox[bool](b) },
	})
	return &testAsm{
		reg: reg, intID: intID, boolID: boolID,
		builder: exprprog.NewBuilder(),
		prec:    map[string]int{"*": 2, "+": 1, "&&": 0},
		flags:   FoldUnaryOnNumberLiterals,
	}
}

func (a *testAsm) Registry() *exprbox.Registry { return a.reg }
func (a *testAsm) Flags() NormFlags            { return a.flags }
func (a *testAsm) Numeric() NumericKinds {
	return NumericKinds{
		IntType: a.intID,
		NegateInt: func(b exprbox.Box) exprbox.Box {
			return exprbox.New(a.intID, -exprbox.Unbox[int64](b))
		},
	}
}
func (a *testAsm) Builder() *exprprog.Builder { return a.builder }
func (a *testAsm) Text(s string)            { a.text.WriteString(s) }
func (a *testAsm) TextLen() int             { return a.text.Len() }
func (a *testAsm) Precedence(op string) int { return a.prec[op] }

// ReplaceText overwrites the normalized-text byte range [start, end) with
// replacement, mirroring internal/exprcomp.session's append-only buffer
// patch so tests exercising ReplaceAliasOperators/ReplaceFunctionNames can
// run against this stand-in Assembler too.
func (a *testAsm) ReplaceText(start, end int, replacement string) {
	s := a.text.String()
	a.text.Reset()
	a.text.WriteString(s[:start])
	a.text.WriteString(replacement)
	a.text.WriteString(s[end:])
}

func (a *testAsm) NoOptimization() bool { return a.noOptimization }

func (a *testAsm) RenderLiteral(value exprbox.Box, hint NumberHint) string {
	return exprbox.AppendString(a.reg, value)
}

func (a *testAsm) ResolveFunction(info *exprplugin.FunctionInfo) error {
	return exprerr.New(exprerr.UnknownIdentifier, "unknown identifier "+info.Name).At(info.Pos, "")
}

func (a *testAsm) ResolveUnary(info *exprplugin.UnaryOpInfo) error {
	if info.Operator != "-" || !info.Arg.Result.IsType(a.intID) {
		return exprerr.New(exprerr.UnknownOperator, "unknown unary operator "+info.Operator).At(info.Pos, "")
	}
	info.Result = exprbox.New(a.intID, int64(0))
	info.CTInvokable = true
	if info.Arg.Const {
		info.IsConstant = true
		info.ConstantValue = exprbox.New(a.intID, -exprbox.Unbox[int64](info.Arg.Value))
	} else {
		info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(a.intID, -exprbox.Unbox[int64](args[0])), nil
		}
	}
	return nil
}

func (a *testAsm) ResolveBinary(info *exprplugin.BinaryOpInfo) error {
	switch info.Operator {
	case "+", "*":
		if !info.Lhs.Result.IsType(a.intID) || !info.Rhs.Result.IsType(a.intID) {
			return exprerr.New(exprerr.TypeMismatch, "expected integers").At(info.Pos, "")
		}
		info.Result = exprbox.New(a.intID, int64(0))
		info.DebugName = info.Operator
		if info.Lhs.Const && info.Rhs.Const {
			lv, rv := exprbox.Unbox[int64](info.Lhs.Value), exprbox.Unbox[int64](info.Rhs.Value)
			var result int64
			if info.Operator == "+" {
				result = lv + rv
			} else {
				result = lv * rv
			}
			info.IsConstant = true
			info.ConstantValue = exprbox.New(a.intID, result)
			return nil
		}
		info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
			lv, rv := exprbox.Unbox[int64](args[0]), exprbox.Unbox[int64](args[1])
			if info.Operator == "+" {
				return exprbox.New(a.intID, lv+rv), nil
			}
			return exprbox.New(a.intID, lv*rv), nil
		}
		return nil
	case "&&":
		info.Result = exprbox.New(a.boolID, false)
		info.DebugName = "&&"
		info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
			return exprbox.New(a.boolID, exprbox.Unbox[bool](args[0]) && exprbox.Unbox[bool](args[1])), nil
		}
		return nil
	default:
		return exprerr.New(exprerr.UnknownOperator, "unknown operator "+info.Operator).At(info.Pos, "")
	}
}

func (a *testAsm) BinaryConstOptimize(op string, constOnLhs bool, constValue exprbox.Box) (ConstFold, bool) {
	if op != "&&" || !constValue.IsType(a.boolID) {
		return 0, false
	}
	if exprbox.Unbox[bool](constValue) {
		return FoldToOperand, true
	}
	return FoldToConstant, true
}

func intLit(v int64, id exprbox.TypeID, pos int) *Literal {
	return NewLiteral(exprbox.New(id, v), HintNone, pos)
}

func TestAssembleConstantFoldsArithmetic(t *testing.T) {
	asm := newTestAsm()
	n := NewBinaryOp("+", intLit(40, asm.intID, 0), intLit(2, asm.intID, 5), 0)

	result, err := Assemble(n, asm)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if !result.Const || exprbox.Unbox[int64](result.Value) != 42 {
		t.Fatalf("expected folded constant 42, got %+v", result)
	}
	if asm.builder.Len() != 1 {
		t.Fatalf("expected 1 instruction after folding, got %d", asm.builder.Len())
	}
	if got := asm.text.String(); got != "40 + 2" {
		t.Fatalf("normalized text = %q, want %q (text is never rolled back)", got, "40 + 2")
	}
}

func TestAssembleConstPropagationDropsTrueOperand(t *testing.T) {
	asm := newTestAsm()
	// identX simulates a non-constant boolean operand: a function whose
	// resolution never sets IsConstant.
	identX := NewIdentifier("X", 0)
	// Override ResolveFunction for this one test via a closure wrapper.
	wrapped := &resolveXAsm{testAsm: asm}

	trueLit := NewLiteral(exprbox.New(asm.boolID, true), HintNone, 5)
	n := NewBinaryOp("&&", identX, trueLit, 0)

	result, err := Assemble(n, wrapped)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if result.Const {
		t.Fatalf("expected non-constant result (X is not constant), got %+v", result)
	}
	// Only X's CALL_FUNCTION instruction should remain; the constant true
	// literal and the && call are both dropped.
	if wrapped.builder.Len() != 1 {
		t.Fatalf("expected 1 instruction after const-propagation fold, got %d", wrapped.builder.Len())
	}
	if wrapped.builder.Slice(0, 1)[0].Op != exprprog.CallFunction {
		t.Fatalf("expected the surviving instruction to be X's CALL_FUNCTION")
	}
	if got := wrapped.text.String(); got != "X && true" {
		t.Fatalf("normalized text = %q, want %q", got, "X && true")
	}
}

type resolveXAsm struct{ *testAsm }

func (a *resolveXAsm) ResolveFunction(info *exprplugin.FunctionInfo) error {
	if info.Name != "X" {
		return a.testAsm.ResolveFunction(info)
	}
	info.Result = exprbox.New(a.boolID, false)
	info.DebugName = "X"
	info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
		return exprbox.New(a.boolID, true), nil
	}
	return nil
}

func TestAssembleUnaryFoldsNegation(t *testing.T) {
	asm := newTestAsm()
	n := NewUnaryOp("-", intLit(5, asm.intID, 1), 0)

	result, err := Assemble(n, asm)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if !result.Const || exprbox.Unbox[int64](result.Value) != -5 {
		t.Fatalf("expected folded constant -5, got %+v", result)
	}
	if asm.builder.Len() != 1 {
		t.Fatalf("expected 1 instruction after folding, got %d", asm.builder.Len())
	}
}

func TestAssembleTernaryEmitsJumps(t *testing.T) {
	asm := newTestAsm()
	wrapped := &resolveXAsm{testAsm: asm}
	n := NewTernary(NewIdentifier("X", 0), intLit(1, asm.intID, 5), intLit(2, asm.intID, 9), 0, 7, 0)

	_, err := Assemble(n, wrapped)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	instrs := wrapped.builder.Slice(0, wrapped.builder.Len())
	var sawJumpIfFalse, sawJump bool
	for _, in := range instrs {
		if in.Op == exprprog.JumpIfFalse {
			sawJumpIfFalse = true
		}
		if in.Op == exprprog.Jump {
			sawJump = true
		}
	}
	if !sawJumpIfFalse || !sawJump {
		t.Fatalf("expected both a JUMP_IF_FALSE and a JUMP in the ternary's program")
	}
	if got := wrapped.text.String(); got != "X ? 1 : 2" {
		t.Fatalf("normalized text = %q, want %q", got, "X ? 1 : 2")
	}
}

func TestAssembleBracketsLowerPrecedenceOperand(t *testing.T) {
	asm := newTestAsm()
	wrapped := &resolveXAsm{testAsm: asm}
	// (X && true) treated as the lhs of a "*" with higher precedence than
	// "&&" should be parenthesized in the normalized text. We reuse the
	// boolean identifier X as a stand-in non-constant lhs of "*" with
	// a nested lower-precedence "&&" to check bracket insertion without
	// needing a real type-correct expression.
	inner := NewBinaryOp("&&", identifierX(), NewLiteral(exprbox.New(asm.boolID, true), HintNone, 0), 0)
	outer := NewBinaryOp("*", inner, intLit(2, asm.intID, 0), 0)

	// This expression is not type-correct (boolean * integer) but
	// Assemble never type-checks beyond what ResolveBinary enforces, and
	// here we only care about the text shape, so stub a permissive
	// ResolveBinary for "*" on booleans via the wrapped asm's existing
	// integer-only rule: use a dedicated local resolver instead.
	stub := &permissiveAsm{resolveXAsm: wrapped}
	if _, err := Assemble(outer, stub); err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if got := stub.text.String(); got != "(X && true) * 2" {
		t.Fatalf("normalized text = %q, want %q", got, "(X && true) * 2")
	}
}

func identifierX() *Identifier { return NewIdentifier("X", 0) }

type permissiveAsm struct{ *resolveXAsm }

func (a *permissiveAsm) ResolveBinary(info *exprplugin.BinaryOpInfo) error {
	if info.Operator == "*" {
		info.Result = exprbox.New(a.intID, int64(0))
		info.DebugName = "*"
		info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) { return args[0], nil }
		return nil
	}
	return a.resolveXAsm.ResolveBinary(info)
}

// aliasRewriteAsm resolves "+" normally but reports a RewrittenOperator,
// standing in for an operand-type-keyed alias (exprplugin.AliasInfo) that
// resolved "add" to its canonical "+" before ResolveBinary ran.
type aliasRewriteAsm struct{ *testAsm }

func (a *aliasRewriteAsm) ResolveBinary(info *exprplugin.BinaryOpInfo) error {
	if info.Operator != "+" && info.Operator != "add" {
		return a.testAsm.ResolveBinary(info)
	}
	info.Result = exprbox.New(a.intID, int64(0))
	info.DebugName = "+"
	info.RewrittenOperator = "+"
	if info.Lhs.Const && info.Rhs.Const {
		lv, rv := exprbox.Unbox[int64](info.Lhs.Value), exprbox.Unbox[int64](info.Rhs.Value)
		info.IsConstant = true
		info.ConstantValue = exprbox.New(a.intID, lv+rv)
		return nil
	}
	info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
		return exprbox.New(a.intID, exprbox.Unbox[int64](args[0])+exprbox.Unbox[int64](args[1])), nil
	}
	return nil
}

func TestAssembleReplaceAliasOperatorsPatchesNormalizedText(t *testing.T) {
	asm := newTestAsm()
	asm.flags = ReplaceAliasOperators
	aliased := &aliasRewriteAsm{testAsm: asm}

	// "add" is written as the operator token parsed, then ResolveBinary
	// reports it resolved via an alias to canonical "+"; with
	// ReplaceAliasOperators set the normalized text must show "+" instead.
	n := NewBinaryOp("add", identifierX(), intLit(2, asm.intID, 0), 0)
	wrapped := &aliasRewriteAsmOnX{aliasRewriteAsm: aliased}

	result, err := Assemble(n, wrapped)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if result.Const {
		t.Fatalf("expected a non-constant result (X is not constant), got %+v", result)
	}
	if got := asm.text.String(); got != "X + 2" {
		t.Fatalf("normalized text = %q, want %q (alias rewritten to canonical '+')", got, "X + 2")
	}
}

type aliasRewriteAsmOnX struct{ *aliasRewriteAsm }

func (a *aliasRewriteAsmOnX) ResolveFunction(info *exprplugin.FunctionInfo) error {
	if info.Name != "X" {
		return a.testAsm.ResolveFunction(info)
	}
	info.Result = exprbox.New(a.intID, int64(0))
	info.DebugName = "X"
	info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
		return exprbox.New(a.intID, int64(1)), nil
	}
	return nil
}

func TestAssembleReplaceAliasOperatorsShiftsNormPosForLongerReplacement(t *testing.T) {
	asm := newTestAsm()
	asm.flags = ReplaceAliasOperators
	aliased := &aliasRewriteAsm{testAsm: asm}
	wrapped := &aliasRewriteLongerAsmOnX{aliasRewriteAsm: aliased}

	// Resolve "+" to a longer canonical spelling "plus" so the rhs operand's
	// already-emitted instruction, written before the operator is patched,
	// would land at a stale NormPos unless ShiftNormPos corrects it.
	wrapped.rewriteTo = "plus"
	n := NewBinaryOp("+", identifierX(), intLit(2, asm.intID, 0), 0)

	if _, err := Assemble(n, wrapped); err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if got := asm.text.String(); got != "X plus 2" {
		t.Fatalf("normalized text = %q, want %q", got, "X plus 2")
	}

	instrs := asm.builder.Slice(0, asm.builder.Len())
	rhsInstr := instrs[len(instrs)-2] // X, 2, CALL_BINARY: the literal 2 is second-to-last
	wantStart := len("X plus ")
	if rhsInstr.NormPos != wantStart {
		t.Fatalf("rhs literal NormPos = %d, want %d (shifted for the longer operator spelling)", rhsInstr.NormPos, wantStart)
	}
}

type aliasRewriteLongerAsmOnX struct {
	*aliasRewriteAsm
	rewriteTo string
}

func (a *aliasRewriteLongerAsmOnX) ResolveFunction(info *exprplugin.FunctionInfo) error {
	if info.Name != "X" {
		return a.testAsm.ResolveFunction(info)
	}
	info.Result = exprbox.New(a.intID, int64(0))
	info.DebugName = "X"
	info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
		return exprbox.New(a.intID, int64(1)), nil
	}
	return nil
}

func (a *aliasRewriteLongerAsmOnX) ResolveBinary(info *exprplugin.BinaryOpInfo) error {
	if info.Operator != "+" {
		return a.aliasRewriteAsm.ResolveBinary(info)
	}
	info.Result = exprbox.New(a.intID, int64(0))
	info.DebugName = "+"
	info.RewrittenOperator = a.rewriteTo
	info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
		return exprbox.New(a.intID, exprbox.Unbox[int64](args[0])+exprbox.Unbox[int64](args[1])), nil
	}
	return nil
}

// debugNameAsm resolves any identifier to a live callback whose DebugName
// differs from the spelling the caller used, standing in for a plug-in
// abbreviation match (e.g. "Abs" resolving to the canonical "Absolute").
type debugNameAsm struct{ *testAsm }

func (a *debugNameAsm) ResolveFunction(info *exprplugin.FunctionInfo) error {
	info.Result = exprbox.New(a.intID, int64(0))
	info.DebugName = "Absolute"
	info.Callback = func(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
		return exprbox.New(a.intID, int64(5)), nil
	}
	return nil
}

func TestAssembleReplaceFunctionNamesPatchesNormalizedText(t *testing.T) {
	asm := newTestAsm()
	asm.flags = ReplaceFunctionNames
	wrapped := &debugNameAsm{testAsm: asm}

	n := NewIdentifier("Abs", 0)
	if _, err := Assemble(n, wrapped); err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if got := asm.text.String(); got != "Absolute" {
		t.Fatalf("normalized text = %q, want %q (function name replaced with canonical DebugName)", got, "Absolute")
	}
}

func TestAssembleWithoutReplaceFunctionNamesKeepsOriginalSpelling(t *testing.T) {
	asm := newTestAsm()
	wrapped := &debugNameAsm{testAsm: asm}

	n := NewIdentifier("Abs", 0)
	if _, err := Assemble(n, wrapped); err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if got := asm.text.String(); got != "Abs" {
		t.Fatalf("normalized text = %q, want %q (original spelling kept without the flag)", got, "Abs")
	}
}
