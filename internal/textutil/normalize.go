package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuationReplacer maps typographic punctuation to ASCII before stripping.
var punctuationReplacer = strings.NewReplacer(
	"&", " and ",
	"‘", "'",
	"’", "'",
	"‚", "'",
	"‛", "'",
	"“", "\"",
	"”", "\"",
	"„", "\"",
	"′", "'",
	"″", "\"",
	"–", "-",
	"—", "-",
	"−", "-",
)

// FoldDiacritics removes combining marks, so "Beyoncé" becomes "Beyonce".
func FoldDiacritics(value string) string {
	if value == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return folded
}

// Normalize canonicalizes free text for comparison. The result is NFC,
// lowercase, diacritic-free, has "&" spelled as "and", contains only letters,
// digits and single spaces, and is trimmed.
func Normalize(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	value = norm.NFC.String(value)
	value = strings.ToLower(value)
	value = punctuationReplacer.Replace(value)
	value = FoldDiacritics(value)

	var b strings.Builder
	b.Grow(len(value))
	pendingSpace := false
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		default:
			// Punctuation acts as a word boundary, the same as whitespace.
			pendingSpace = true
		}
	}
	return b.String()
}
