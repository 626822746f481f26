// Package exprlex tokenizes expression source text into literals,
// identifiers, symbolic operator glyphs and punctuation. It follows the
// teacher's internal/lexer package (rune-based scanning over a string,
// byte-offset position tracking) cut down from a full-language keyword
// lexer to an expression-only scanner: there are no keywords here, only
// identifiers that the parser or compiler may later resolve as verbal
// operator aliases.
package exprlex

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cwbudde/go-expr/internal/exprerr"
)

const punctChars = "()[],?:;"

// Scanner is a single-pass tokenizer over an expression's source text.
type Scanner struct {
	src  string
	opts Options
	ops  []string
	pos  int
}

// New creates a Scanner for src configured with opts.
func New(src string, opts Options) *Scanner {
	return &Scanner{src: src, opts: opts, ops: opts.sortedOperators()}
}

// Next returns the next token, or a *exprerr.Exception of Kind SyntaxError
// on malformed input (unterminated string, dangling escape, unrecognized
// character).
func (s *Scanner) Next() (Token, error) {
	s.skipWhitespace()
	if s.pos >= len(s.src) {
		return Token{Kind: EOF, Pos: s.pos}, nil
	}

	start := s.pos
	ch := s.src[s.pos]

	switch {
	case ch == '"':
		return s.scanString()
	case ch >= '0' && ch <= '9':
		return s.scanNumber()
	case isIdentStart(rune(ch)) || ch >= utf8.RuneSelf:
		return s.scanIdentifier()
	default:
		// Operators are tried before single-character punctuation so that a
		// multi-glyph operator sharing a leading character with a
		// punctuation mark (e.g. the elvis operator "?:" starting with the
		// ternary's "?") wins by maximal munch.
		if op, ok := s.matchOperator(); ok {
			return Token{Kind: Operator, Text: op, Pos: start}, nil
		}
		if strings.IndexByte(punctChars, ch) >= 0 {
			s.pos++
			return Token{Kind: Punct, Text: string(ch), Pos: start}, nil
		}
		return Token{}, exprerr.New(exprerr.SyntaxError,
			fmt.Sprintf("unrecognized character %q", ch)).At(start, s.src)
	}
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

func (s *Scanner) matchOperator() (string, bool) {
	for _, op := range s.ops {
		if strings.HasPrefix(s.src[s.pos:], op) {
			s.pos += len(op)
			return op, true
		}
	}
	return "", false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (s *Scanner) scanIdentifier() (Token, error) {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentCont(r) {
			break
		}
		s.pos += size
	}
	text := s.src[start:s.pos]
	return Token{Kind: Ident, Text: text, Pos: start}, nil
}

func (s *Scanner) scanNumber() (Token, error) {
	start := s.pos

	if base, prefix, ok := s.matchRadixPrefix(); ok {
		s.pos += len(prefix)
		digitsStart := s.pos
		for s.pos < len(s.src) && isRadixDigit(s.src[s.pos], base) {
			s.pos++
		}
		if s.pos == digitsStart {
			return Token{}, exprerr.New(exprerr.SyntaxError, "missing digits after numeric prefix").
				At(start, s.src)
		}
		digits := s.src[digitsStart:s.pos]
		value, err := strconv.ParseInt(digits, int(base), 64)
		if err != nil {
			return Token{}, exprerr.New(exprerr.SyntaxError, "invalid integer literal").
				At(start, s.src).Wrap(err)
		}
		return Token{Kind: Int, Text: s.src[start:s.pos], Pos: start, IntValue: value, NumberBase: base}, nil
	}

	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}

	isFloat := false
	if s.pos < len(s.src) && s.src[s.pos] == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1]) {
		isFloat = true
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}

	scientific := false
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		save := s.pos
		p := s.pos + 1
		if p < len(s.src) && (s.src[p] == '+' || s.src[p] == '-') {
			p++
		}
		if p < len(s.src) && isDigit(s.src[p]) {
			for p < len(s.src) && isDigit(s.src[p]) {
				p++
			}
			s.pos = p
			isFloat = true
			scientific = true
		} else {
			s.pos = save
		}
	}

	text := s.src[start:s.pos]
	if isFloat {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, exprerr.New(exprerr.SyntaxError, "invalid float literal").
				At(start, s.src).Wrap(err)
		}
		return Token{Kind: Float, Text: text, Pos: start, FloatValue: value, Scientific: scientific}, nil
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, exprerr.New(exprerr.SyntaxError, "invalid integer literal").
			At(start, s.src).Wrap(err)
	}
	return Token{Kind: Int, Text: text, Pos: start, IntValue: value, NumberBase: Base10}, nil
}

func (s *Scanner) matchRadixPrefix() (NumberBase, string, bool) {
	rest := s.src[s.pos:]
	switch {
	case s.opts.HexPrefix != "" && hasCaseInsensitivePrefix(rest, s.opts.HexPrefix):
		return Base16, s.opts.HexPrefix, true
	case s.opts.OctPrefix != "" && hasCaseInsensitivePrefix(rest, s.opts.OctPrefix):
		return Base8, s.opts.OctPrefix, true
	case s.opts.BinPrefix != "" && hasCaseInsensitivePrefix(rest, s.opts.BinPrefix):
		return Base2, s.opts.BinPrefix, true
	default:
		return 0, "", false
	}
}

func hasCaseInsensitivePrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isRadixDigit(b byte, base NumberBase) bool {
	switch base {
	case Base2:
		return b == '0' || b == '1'
	case Base8:
		return b >= '0' && b <= '7'
	case Base16:
		return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	default:
		return isDigit(b)
	}
}

func (s *Scanner) scanString() (Token, error) {
	start := s.pos
	s.pos++ // opening quote

	var sb strings.Builder
	needsEscape := false
	for {
		if s.pos >= len(s.src) {
			return Token{}, exprerr.New(exprerr.SyntaxError, "unterminated string literal").
				At(start, s.src)
		}
		ch := s.src[s.pos]
		if ch == '"' {
			s.pos++
			break
		}
		if ch == '\\' {
			needsEscape = true
			s.pos++
			if s.pos >= len(s.src) {
				return Token{}, exprerr.New(exprerr.SyntaxError, "dangling escape in string literal").
					At(start, s.src)
			}
			esc := s.src[s.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				return Token{}, exprerr.New(exprerr.SyntaxError,
					fmt.Sprintf("unknown escape sequence \\%c", esc)).At(s.pos-1, s.src)
			}
			s.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		sb.WriteRune(r)
		s.pos += size
	}

	return Token{
		Kind:        Str,
		Text:        s.src[start:s.pos],
		Pos:         start,
		StringValue: sb.String(),
		NeedsEscape: needsEscape,
	}, nil
}
