package providers

import (
	"strings"
	"unicode"
)

var aliases = map[string]string{
	"nyc": "New York, NY",
	"la":  "Los Angeles, CA",
	"sf":  "San Francisco, CA",
	"chi": "Chicago, IL",
}

// StaticLocation resolves a small table of city aliases and title-cases
// everything else. Words already written in capitals (state and country
// codes such as "NY" or "UK") are kept as typed.
type StaticLocation struct{}

// NewLocation creates the static alias location provider.
func NewLocation() StaticLocation {
	return StaticLocation{}
}

// Normalize trims and collapses whitespace, title-cases each word, and
// resolves aliases case-insensitively against the title-cased text.
// Normalize(Normalize(x)) == Normalize(x).
func (StaticLocation) Normalize(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}

	for i, f := range fields {
		fields[i] = titleWord(f)
	}
	titled := strings.Join(fields, " ")

	if alias, ok := aliases[strings.ToLower(titled)]; ok {
		return alias
	}
	return titled
}

func titleWord(w string) string {
	if isUpper(w) {
		return w
	}

	var sb strings.Builder
	prevLetter := false
	for _, r := range w {
		if prevLetter {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(unicode.ToTitle(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return sb.String()
}

func isUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}
