package blueprint

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize normalizes a label or identifier:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// EstimateTokens estimates token count using a word-based heuristic
// (1.3x multiplier on word count).
func EstimateTokens(text string) int {
	words := strings.Fields(strings.TrimSpace(text))
	return int(math.Ceil(float64(len(words)) * 1.3))
}

// placeholderLines are values models emit for "no dependencies".
var placeholderLines = map[string]bool{
	"none":    true,
	"(none)":  true,
	"n/a":     true,
	"(n/a)":   true,
	"(empty)": true,
	"-":       true,
}

// NormalizeRequirements reduces a requirements section to plain
// newline-separated package specifiers: fences and bullet markers are
// stripped, blank and placeholder lines dropped. Pip version specifiers
// are preserved as-is.
func NormalizeRequirements(text string) string {
	text = StripFence(text)

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimSpace(line)
		if line == "" || placeholderLines[strings.ToLower(line)] {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
