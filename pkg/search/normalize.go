package search

import "strings"

// maxTermLength caps how much of a user query is ever inspected or stored.
const maxTermLength = 255

// Normalize prepares a raw user query for matching: surrounding whitespace
// is trimmed, interior whitespace runs collapse to a single space, and the
// result is truncated to maxTermLength characters. Never fails; an empty
// result means there is nothing to search for.
func Normalize(raw string) string {
	collapsed := strings.Join(strings.Fields(raw), " ")
	runes := []rune(collapsed)
	if len(runes) > maxTermLength {
		return string(runes[:maxTermLength])
	}
	return collapsed
}

// NormalizeLimit validates a requested result limit. Anything non-positive
// or above max falls back to the default rather than clamping, so a caller
// asking for an absurd page size gets the standard one.
func NormalizeLimit(limit, def, max int) int {
	if limit <= 0 || limit > max {
		return def
	}
	return limit
}
