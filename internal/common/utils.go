package common

import "strings"

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// NormalizeCityName trims surrounding whitespace only. Case is preserved, so
// "Jakarta" and "jakarta" stay distinct.
func NormalizeCityName(name string) string {
	return strings.TrimSpace(name)
}
