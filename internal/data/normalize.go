package data

import (
	"regexp"
	"strings"
)

var (
	disallowedRegex = regexp.MustCompile(`[^A-Za-z0-9\s.,\-()/@:+<]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalize reduces OCR output to the characters the extractors understand.
// Disallowed runes are replaced before whitespace is collapsed, so a run of
// symbols never leaves more than one space behind.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = disallowedRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
