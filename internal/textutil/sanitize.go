package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unsafeRunes matches everything that is not allowed in an output path segment.
var unsafeRunes = runes.Predicate(func(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return false
	}
	switch r {
	case ' ', '.', '_':
		return false
	}
	return true
})

// SanitizeFileName reduces name to letters, digits, spaces, dots, and
// underscores. Text is NFC-normalized first so composed characters survive as
// a single letter. Trailing whitespace is trimmed; leading whitespace is kept.
//
//	SanitizeFileName("Foo/Bar")    == "FooBar"
//	SanitizeFileName("Title: One") == "Title One"
func SanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	t := transform.Chain(norm.NFC, runes.Remove(unsafeRunes))
	out, _, err := transform.String(t, name)
	if err != nil {
		out = strings.Map(func(r rune) rune {
			if unsafeRunes.Contains(r) {
				return -1
			}
			return r
		}, name)
	}
	return strings.TrimRightFunc(out, unicode.IsSpace)
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
