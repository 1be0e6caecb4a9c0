// Package textutil holds the pure text helpers the scoring engine is built
// on: bounded substring counting and HTML flattening.
package textutil

import "strings"

// CountOccurrences counts case-insensitive, non-overlapping occurrences of
// needle in text, stopping at max. Empty needles never match.
func CountOccurrences(text, needle string, max int) int {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" || max <= 0 {
		return 0
	}
	text = strings.ToLower(text)

	count := 0
	for count < max {
		i := strings.Index(text, needle)
		if i < 0 {
			break
		}
		count++
		text = text[i+len(needle):]
	}
	return count
}

// Contains reports whether text contains needle, case-insensitively.
func Contains(text, needle string) bool {
	return CountOccurrences(text, needle, 1) > 0
}
