// Package exprfmt renders numbers the way literal assembly and host
// callbacks need them rendered: plain decimal, forced hex/octal/binary with
// a configurable prefix, or forced scientific notation for floats. It is
// the Scope's formatter (spec.md §3) and is the one place in this module
// that reaches for golang.org/x/text instead of bare strconv/fmt, following
// SPEC_FULL.md's DOMAIN STACK wiring for locale-aware decimal rendering.
package exprfmt

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter holds the number-format configuration shared by a Compiler and
// every Scope it creates: literal-prefix strings and the locale used for
// decimal rendering.
type Formatter struct {
	printer    *message.Printer
	HexPrefix  string
	OctPrefix  string
	BinPrefix  string
	GroupDigits bool
}

// New returns a Formatter for the given BCP-47 language tag (e.g.
// language.AmericanEnglish). An empty tag falls back to language.Und, which
// renders plain digits with no locale-specific grouping.
func New(tag language.Tag) *Formatter {
	return &Formatter{
		printer:   message.NewPrinter(tag),
		HexPrefix: "0x",
		OctPrefix: "0o",
		BinPrefix: "0b",
	}
}

// Default returns a Formatter using the neutral "undetermined" locale and
// the default literal prefixes from spec.md §6.
func Default() *Formatter { return New(language.Und) }

// Int renders value in base 10, or with the configured prefix in the given
// non-decimal base (2, 8 or 16).
func (f *Formatter) Int(value int64, base int) string {
	switch base {
	case 16:
		return f.HexPrefix + strconv.FormatUint(uint64(value), 16)
	case 8:
		return f.OctPrefix + strconv.FormatUint(uint64(value), 8)
	case 2:
		return f.BinPrefix + strconv.FormatUint(uint64(value), 2)
	default:
		if f.GroupDigits {
			return f.printer.Sprint(number.Decimal(value))
		}
		return strconv.FormatInt(value, 10)
	}
}

// Float renders value in plain decimal form, or in forced scientific
// notation when scientific is true.
func (f *Formatter) Float(value float64, scientific bool) string {
	if scientific {
		s := strconv.FormatFloat(value, 'e', -1, 64)
		return normalizeExponent(s)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// normalizeExponent turns Go's "1e+10" / "1e-05" rendering into the more
// conventional "1e10" / "1e-5" form.
func normalizeExponent(s string) string {
	idx := strings.IndexByte(s, 'e')
	if idx < 0 {
		return s
	}
	mantissa, exp := s[:idx], s[idx+1:]
	sign := ""
	if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
		if exp[0] == '-' {
			sign = "-"
		}
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + sign + exp
}
