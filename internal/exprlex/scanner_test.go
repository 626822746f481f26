package exprlex

import (
	"testing"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	s := New(src, DefaultOptions())
	var toks []Token
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("scanning %q: %v", src, err)
		}
		if tok.Kind == EOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestIntegerLiteralBases(t *testing.T) {
	cases := []struct {
		src  string
		want int64
		base NumberBase
	}{
		{"42", 42, Base10},
		{"0x2A", 42, Base16},
		{"0o52", 42, Base8},
		{"0b101010", 42, Base2},
	}
	for _, c := range cases {
		toks := scanAll(t, c.src)
		if len(toks) != 1 || toks[0].Kind != Int {
			t.Fatalf("%q: expected single Int token, got %+v", c.src, toks)
		}
		if toks[0].IntValue != c.want {
			t.Fatalf("%q: IntValue = %d, want %d", c.src, toks[0].IntValue, c.want)
		}
		if toks[0].NumberBase != c.base {
			t.Fatalf("%q: NumberBase = %d, want %d", c.src, toks[0].NumberBase, c.base)
		}
	}
}

func TestFloatLiteralWithScientificForm(t *testing.T) {
	toks := scanAll(t, "1.5e10")
	if len(toks) != 1 || toks[0].Kind != Float {
		t.Fatalf("expected single Float token, got %+v", toks)
	}
	if !toks[0].Scientific {
		t.Fatalf("expected Scientific flag set")
	}
	if toks[0].FloatValue != 1.5e10 {
		t.Fatalf("FloatValue = %v", toks[0].FloatValue)
	}
}

func TestStringEscapeRoundTrip(t *testing.T) {
	cases := []struct{ raw, want string }{
		{`""`, ""},
		{`"a"`, "a"},
		{`"say \"hi\""`, `say "hi"`},
		{`"a\\b"`, `a\b`},
		{`"line\nbreak"`, "line\nbreak"},
	}
	for _, c := range cases {
		toks := scanAll(t, c.raw)
		if len(toks) != 1 || toks[0].Kind != Str {
			t.Fatalf("%q: expected single Str token, got %+v", c.raw, toks)
		}
		if toks[0].StringValue != c.want {
			t.Fatalf("%q: StringValue = %q, want %q", c.raw, toks[0].StringValue, c.want)
		}
	}
}

func TestUnterminatedStringIsSyntaxError(t *testing.T) {
	s := New(`"abc`, DefaultOptions())
	_, err := s.Next()
	if err == nil {
		t.Fatalf("expected error for unterminated string")
	}
}

func TestOperatorMaximalMunch(t *testing.T) {
	toks := scanAll(t, "a <= b")
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[1].Kind != Operator || toks[1].Text != "<=" {
		t.Fatalf("expected '<=' operator, got %+v", toks[1])
	}

	// "<" must not be mistakenly preferred over "<=" due to munch order.
	toks = scanAll(t, "a<b")
	if toks[1].Text != "<" {
		t.Fatalf("expected '<' operator for 'a<b', got %q", toks[1].Text)
	}
}

func TestIdentifiersAndPunctuation(t *testing.T) {
	toks := scanAll(t, "Foo(x, y[0])")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	want := []TokenKind{Ident, Punct, Ident, Punct, Ident, Punct, Int, Punct, Punct}
	if len(kinds) != len(want) {
		t.Fatalf("token kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	toks := scanAll(t, "Δ")
	if len(toks) != 1 || toks[0].Kind != Ident || toks[0].Text != "Δ" {
		t.Fatalf("expected single unicode identifier token, got %+v", toks)
	}
}
