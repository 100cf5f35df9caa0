package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile("[^a-z0-9]+")

// GenerateSlug lowercases text, strips diacritics and joins the remaining
// alphanumeric runs with hyphens. "Über Beam!" becomes "uber-beam".
func GenerateSlug(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	text, _, _ = transform.String(t, text)

	text = strings.ToLower(text)
	text = nonSlugChars.ReplaceAllString(text, "-")

	return strings.Trim(text, "-")
}
