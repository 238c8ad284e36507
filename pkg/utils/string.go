package utils

import "strings"

// CompressAllWhitespace joins the words of s with single spaces, dropping
// newlines, tabs and surrounding whitespace.
func CompressAllWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitLines returns the trimmed, non-blank lines of text. Both LF and
// CRLF line endings are accepted.
func SplitLines(text string) []string {
	var lines []string
	for line := range strings.Lines(text) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Truncate shortens s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
