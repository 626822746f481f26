package exprcomp

import "strconv"

// quoteString renders a string literal's normalized text using Go's escape
// rules, which is also spec.md §6's default string-literal syntax.
func quoteString(s string) string { return strconv.Quote(s) }
