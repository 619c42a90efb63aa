package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// Truncate shortens s to keep runes followed by "..." when s is longer than limit runes.
func Truncate(s string, limit, keep int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:keep]) + "..."
}
