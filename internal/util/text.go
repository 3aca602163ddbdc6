package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// CollapseSpaces trims the string and squeezes internal whitespace runs to a
// single space.
func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// NormalizeName builds the deduplication key for an item name: lower-cased,
// trimmed, internal whitespace collapsed.
func NormalizeName(input string) string {
	return strings.ToLower(CollapseSpaces(input))
}

// SplitLines normalizes line endings and returns non-blank trimmed lines.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
