package exprscope

import (
	"testing"

	"github.com/cwbudde/go-expr/internal/exprbox"
)

func TestScopeStackPushPopN(t *testing.T) {
	s := New(nil, nil)
	s.Push(exprbox.New(1, int64(1)))
	s.Push(exprbox.New(1, int64(2)))
	s.Push(exprbox.New(1, int64(3)))

	args := s.PopN(2)
	if len(args) != 2 {
		t.Fatalf("PopN(2) returned %d args", len(args))
	}
	if exprbox.Unbox[int64](args[0]) != 2 || exprbox.Unbox[int64](args[1]) != 3 {
		t.Fatalf("PopN did not preserve left-to-right order: %+v", args)
	}
	if s.StackLen() != 1 {
		t.Fatalf("StackLen = %d, want 1", s.StackLen())
	}
}

func TestScopeResetClearsStackAndArena(t *testing.T) {
	s := New(nil, nil)
	s.Push(exprbox.New(1, int64(1)))
	s.Intern("hello")
	s.Reset()
	if s.StackLen() != 0 {
		t.Fatalf("StackLen after Reset = %d", s.StackLen())
	}
	if len(s.arena) != 0 {
		t.Fatalf("arena length after Reset = %d", len(s.arena))
	}
}

func TestCompileTimeScopeMarked(t *testing.T) {
	s := New(nil, "host")
	if s.IsCompileTime() {
		t.Fatalf("evaluation scope reported as compile-time")
	}
	ct := NewCompileTime(nil)
	if !ct.IsCompileTime() {
		t.Fatalf("compile-time scope not marked")
	}
	if ct.HostData != nil {
		t.Fatalf("compile-time scope must have no host data")
	}
}
