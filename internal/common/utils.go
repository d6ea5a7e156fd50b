package common

import "strings"

// NormalizeSpace collapses runs of whitespace (including non-breaking spaces)
// into single spaces and trims the result.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// HasAnyPrefix returns the first prefix s starts with, if any.
func HasAnyPrefix(s string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}
