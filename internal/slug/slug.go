// Package slug turns free text into URL-safe tokens.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength bounds slugs when callers have no tighter limit.
const DefaultMaxLength = 128

var nonToken = regexp.MustCompile(`[^a-z0-9]+`)

// Decompose accented characters and drop the combining marks, so that
// "Café" becomes "Cafe" before the ASCII cleanup below.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify transliterates text to a lowercase token of [a-z0-9-] at most
// maxLength bytes long. Runs of other characters collapse to a single
// hyphen and truncation happens on a word boundary, never leaving a
// trailing hyphen. Empty input yields an empty token. A maxLength of
// zero or less means DefaultMaxLength.
func Slugify(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	flat, _, err := transform.String(deaccent, text)
	if err != nil {
		// Transliteration is best effort; fall back to the raw text.
		flat = text
	}

	s := strings.ToLower(flat)
	s = nonToken.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return truncateWordSafe(s, maxLength)
}

// truncateWordSafe cuts s to at most max bytes, backing up to the last
// hyphen when the cut would split a word. Safe to index bytewise: s only
// contains [a-z0-9-] at this point.
func truncateWordSafe(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := s[:max]
	if s[max] != '-' {
		if idx := strings.LastIndexByte(cut, '-'); idx > 0 {
			cut = cut[:idx]
		}
	}
	return strings.TrimRight(cut, "-")
}
