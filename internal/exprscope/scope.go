// Package exprscope implements the per-evaluation mutable context (spec.md
// §3, §5): an arena-style allocator for result strings, a reference to the
// shared Formatter, an open slot for host-owned per-call data, and the
// operand stack the VM runs on. A structurally identical CompileScope
// variant is used for constant folding during compilation.
package exprscope

import (
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprfmt"
)

// Func is the signature every compiled callback — identifier, function,
// unary or binary operator implementation — is invoked with. Callbacks
// that depend on per-call host data must not be marked compile-time
// invokable (spec.md §4.6, §9).
type Func func(scope *Scope, args []exprbox.Box) (exprbox.Box, error)

// Scope is the mutable, single-evaluation context threaded through the VM
// and every callback it invokes. A Scope is owned exclusively by one
// in-flight evaluation; results that outlive the Scope must be copied out
// of its arena before the Scope is reset or discarded (spec.md §5).
type Scope struct {
	Formatter   *exprfmt.Formatter
	HostData    any
	arena       []string
	stack       []exprbox.Box
	compileTime bool
	nestedNames map[string]bool
}

// New creates an evaluation Scope using formatter for number rendering and
// hostData as the per-call slot host callbacks may read or write.
func New(formatter *exprfmt.Formatter, hostData any) *Scope {
	if formatter == nil {
		formatter = exprfmt.Default()
	}
	return &Scope{Formatter: formatter, HostData: hostData}
}

// NewCompileTime creates the compile-time counterpart used for constant
// folding: same shape, no host data, explicitly marked so callbacks can
// refuse to run when they are not compile-time-invokable.
func NewCompileTime(formatter *exprfmt.Formatter) *Scope {
	s := New(formatter, nil)
	s.compileTime = true
	return s
}

// IsCompileTime reports whether s is the compile-time scope passed to
// callbacks during constant folding.
func (s *Scope) IsCompileTime() bool { return s.compileTime }

// Intern copies s into the scope's arena and returns the stable copy. Any
// Box holding a string produced by a callback should be built from the
// returned string rather than held in a transient buffer, since the
// caller-visible guarantee is that the string outlives this call.
func (s *Scope) Intern(str string) string {
	cp := string([]byte(str))
	s.arena = append(s.arena, cp)
	return cp
}

// Reset clears the scope's arena and operand stack so the Scope can be
// reused for another evaluation without reallocating it.
func (s *Scope) Reset() {
	s.arena = s.arena[:0]
	s.stack = s.stack[:0]
}

// --- VM operand stack -------------------------------------------------

// Push pushes b onto the evaluation stack.
func (s *Scope) Push(b exprbox.Box) { s.stack = append(s.stack, b) }

// Pop pops and returns the top of the evaluation stack. Popping an empty
// stack is an internal invariant violation; callers (the VM) must not do
// it — see exprprog's InternalVmError handling.
func (s *Scope) Pop() exprbox.Box {
	n := len(s.stack)
	b := s.stack[n-1]
	s.stack = s.stack[:n-1]
	return b
}

// PopN pops and returns the top n operands, in original left-to-right
// order.
func (s *Scope) PopN(n int) []exprbox.Box {
	start := len(s.stack) - n
	args := make([]exprbox.Box, n)
	copy(args, s.stack[start:])
	s.stack = s.stack[:start]
	return args
}

// StackLen reports the current operand stack depth.
func (s *Scope) StackLen() int { return len(s.stack) }

// Top returns the stack without popping, for internal-invariant checks.
func (s *Scope) Top() exprbox.Box { return s.stack[len(s.stack)-1] }

// --- nested-expression support -----------------------------------------

// EnterNamed records that named expression name is now being evaluated on
// s's call chain, reporting false (without recording anything) if name is
// already on the chain — the CircularNestedExpression case (spec.md
// §4.8). Every successful EnterNamed must be matched by a LeaveNamed once
// that expression's evaluation completes.
func (s *Scope) EnterNamed(name string) bool {
	if s.nestedNames == nil {
		s.nestedNames = make(map[string]bool)
	}
	if s.nestedNames[name] {
		return false
	}
	s.nestedNames[name] = true
	return true
}

// LeaveNamed un-marks name as in-progress on s's call chain.
func (s *Scope) LeaveNamed(name string) {
	delete(s.nestedNames, name)
}

// RunNested runs fn against a temporarily empty operand stack, restoring
// s's own stack afterward regardless of outcome. A nested expression's
// evaluation must not see or disturb the enclosing VM's in-flight operand
// stack, but still shares s's Formatter, HostData, arena and nested-name
// chain — the "current scope" spec.md §4.8 describes.
func (s *Scope) RunNested(fn func() (exprbox.Box, error)) (exprbox.Box, error) {
	saved := s.stack
	s.stack = nil
	defer func() { s.stack = saved }()
	return fn()
}
