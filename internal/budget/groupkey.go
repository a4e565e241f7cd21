package budget

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DisplayName trims and collapses whitespace but keeps case and accents.
func DisplayName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// GroupKey is the key concepts are merged on in a report: whitespace
// collapsed, diacritics stripped, lowercased. GroupKey(GroupKey(s)) == GroupKey(s).
func GroupKey(name string) string {
	// A transform.Chain keeps state, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	stripped, _, err := transform.String(t, DisplayName(name))
	if err != nil {
		stripped = DisplayName(name)
	}

	return strings.ToLower(stripped)
}
