// Package exprerr implements the typed exception taxonomy of the
// expression engine (spec.md §6, §7). It follows the teacher's
// internal/errors package — a single error type carrying source position
// and a caret-pointing source excerpt — generalized from one compiler
// error shape into one Kind per exception named in the specification.
package exprerr

import (
	"fmt"
	"strings"
)

// Kind discriminates the surface-level exception taxonomy from spec.md §6.
type Kind int

const (
	_ Kind = iota
	SyntaxError
	UnknownIdentifier
	UnknownOperator
	UnknownFunctionSignature
	TypeMismatch
	NestedExpressionNotFound
	NestedExpressionCallArgumentMismatch
	NestedExpressionResultTypeMismatch
	ResultTypeMismatch
	CircularNestedExpression
	InternalVmError
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case UnknownOperator:
		return "UnknownOperator"
	case UnknownFunctionSignature:
		return "UnknownFunctionSignature"
	case TypeMismatch:
		return "TypeMismatch"
	case NestedExpressionNotFound:
		return "NestedExpressionNotFound"
	case NestedExpressionCallArgumentMismatch:
		return "NestedExpressionCallArgumentMismatch"
	case NestedExpressionResultTypeMismatch:
		return "NestedExpressionResultTypeMismatch"
	case ResultTypeMismatch:
		return "ResultTypeMismatch"
	case CircularNestedExpression:
		return "CircularNestedExpression"
	case InternalVmError:
		return "InternalVmError"
	default:
		return "Unknown"
	}
}

// Exception is the single error type for every user- and evaluation-level
// failure the core raises. It always carries a Kind, and carries a source
// position whenever one is knowable.
type Exception struct {
	Inner    error
	Kind     Kind
	Message  string
	Token    string // offending token or type name, when applicable
	Source   string // original or normalized expression text, for context
	Pos      int    // byte offset into Source; -1 if unknown
	HasPos   bool
}

// New creates an Exception of the given Kind with no known source position.
func New(kind Kind, message string) *Exception {
	return &Exception{Kind: kind, Message: message, Pos: -1}
}

// At attaches a source position and the original text to e, returning e for
// chaining.
func (e *Exception) At(pos int, source string) *Exception {
	e.Pos = pos
	e.HasPos = true
	e.Source = source
	return e
}

// WithToken attaches the offending token or type name.
func (e *Exception) WithToken(token string) *Exception {
	e.Token = token
	return e
}

// Wrap attaches inner as the chained cause of e.
func (e *Exception) Wrap(inner error) *Exception {
	e.Inner = inner
	return e
}

// Error implements the error interface with a caret-pointing rendering of
// the offending source position, mirroring the teacher's CompilerError.
func (e *Exception) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Kind, e.Message)
	if e.Token != "" {
		fmt.Fprintf(&sb, " (token %q)", e.Token)
	}
	if e.HasPos {
		fmt.Fprintf(&sb, "\n%s\n%s^", e.Source, strings.Repeat(" ", clampPos(e.Pos, len(e.Source))))
	}
	if e.Inner != nil {
		fmt.Fprintf(&sb, "\n  caused by: %v", e.Inner)
	}
	return sb.String()
}

// Unwrap exposes the chained inner error for errors.Is/errors.As.
func (e *Exception) Unwrap() error { return e.Inner }

func clampPos(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
