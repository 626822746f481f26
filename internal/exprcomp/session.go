package exprcomp

import (
	"github.com/cwbudde/go-expr/internal/exprast"
	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprprog"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// session is the per-Compile exprast.Assembler: it owns the normalized-text
// buffer and the exprprog.Builder for exactly one Compile call, while
// delegating every plug-in/registry/flag question back to the long-lived
// Compiler. Splitting it out this way means a Compiler itself never
// carries any one in-progress compile's state, so concurrent Compile calls
// on the same Compiler are safe once registration has finished (spec.md
// §5).
type session struct {
	c       *Compiler
	text    []byte
	builder *exprprog.Builder
	ctScope *exprscope.Scope
}

func (c *Compiler) newSession() *session {
	return &session{c: c, builder: exprprog.NewBuilder(), ctScope: exprscope.NewCompileTime(c.formatter)}
}

func (s *session) Registry() *exprbox.Registry   { return s.c.reg }
func (s *session) Flags() exprast.NormFlags      { return s.c.flags }
func (s *session) Numeric() exprast.NumericKinds { return s.c.numeric }
func (s *session) Builder() *exprprog.Builder    { return s.builder }

// Text appends str to the normalized source, first checking whether the
// new text's leading byte and the buffer's trailing byte would juxtapose
// into one of the Compiler's forbidden two-character substrings (e.g.
// "--", "/*") and inserting a separating space if so. This re-check
// happens per emission, scoped to the just-written boundary, rather than
// as a scan over the whole buffer (SPEC_FULL.md SUPPLEMENTED FEATURES #1).
func (s *session) Text(str string) {
	if str == "" {
		return
	}
	if len(s.text) > 0 {
		last := s.text[len(s.text)-1]
		for _, forbidden := range s.c.forbidden {
			if len(forbidden) == 2 && last == forbidden[0] && str[0] == forbidden[1] {
				s.text = append(s.text, ' ')
				break
			}
		}
	}
	s.text = append(s.text, str...)
}

func (s *session) TextLen() int { return len(s.text) }

// ReplaceText overwrites the normalized-text byte range [start, end) with
// replacement, for the "replace function names"/"replace alias operators"
// normalization rewrites (spec.md §4.4).
func (s *session) ReplaceText(start, end int, replacement string) {
	tail := append([]byte(nil), s.text[end:]...)
	s.text = append(s.text[:start:start], replacement...)
	s.text = append(s.text, tail...)
}

// NoOptimization reports whether this compile's no-optimization flag
// (spec.md §4.5) suppresses constant folding.
func (s *session) NoOptimization() bool { return s.c.compileFlags.Has(NoOptimization) }

func (s *session) RenderLiteral(value exprbox.Box, hint exprast.NumberHint) string {
	return s.c.renderLiteral(value, hint)
}

func (s *session) Precedence(op string) int { return s.c.precedence[op] }

func (s *session) ResolveFunction(info *exprplugin.FunctionInfo) error {
	return s.c.resolveFunction(s.ctScope, info)
}

func (s *session) ResolveUnary(info *exprplugin.UnaryOpInfo) error {
	return s.c.resolveUnary(s.ctScope, info)
}

func (s *session) ResolveBinary(info *exprplugin.BinaryOpInfo) error {
	return s.c.resolveBinary(s.ctScope, info)
}

func (s *session) BinaryConstOptimize(op string, constOnLhs bool, constValue exprbox.Box) (exprast.ConstFold, bool) {
	return s.c.BinaryConstOptimize(op, constOnLhs, constValue)
}
