package schema

import "strings"

// Go reference semantics for the SQL split helpers. The verifier and
// tests use these to predict what the in-database objects must produce:
// token count is 1 + delimiter occurrences, consecutive delimiters yield
// empty tokens, and an empty source yields no tokens at all.

// TokenCount returns the number of child rows a source value produces.
func TokenCount(s, delim string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, delim)
}

// Tokens splits a source value into its child row values in order.
func Tokens(s, delim string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, delim)
}

// TokenAt extracts the n-th token (1-indexed): take the first n
// delimiter-bounded segments from the left, keep the last one. This
// mirrors the SUBSTRING_INDEX construction the counted-loop dialects
// emit, so the two implementations can be checked against each other.
func TokenAt(s, delim string, n int) string {
	if n < 1 {
		return ""
	}
	parts := strings.SplitN(s, delim, n+1)
	if n > len(parts) {
		return ""
	}
	return parts[n-1]
}
