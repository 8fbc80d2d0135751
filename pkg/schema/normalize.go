package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Feminine/masculine ordinal indicators ("3ª Série", "5º Ano") decompose to
// nothing useful under NFD, so they are mapped to plain letters up front.
var ordinalReplacer = strings.NewReplacer("ª", "a", "º", "o")

// Slugify turns free text into a login-name token: lower-case, ordinal
// indicators mapped to plain letters, diacritics stripped, everything but
// letters, digits and whitespace removed, surviving words joined with
// hyphens. Pure: the same input always produces the same slug.
func Slugify(text string) string {
	s := ordinalReplacer.Replace(strings.ToLower(text))
	s = stripDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), "-")
}

// stripDiacritics removes diacritical marks: NFD decomposition splits
// characters like 'ã' into 'a' plus a combining mark, and the combining
// marks (unicode.Mn) are dropped.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DeriveUsername builds "first.last@domain" from a full name: first and last
// whitespace-separated tokens, slugified. A single-token name repeats the
// first token. Returns false when the name contains no tokens at all.
func DeriveUsername(fullName, domain string) (string, bool) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", false
	}
	first := Slugify(parts[0])
	last := first
	if len(parts) > 1 {
		last = Slugify(parts[len(parts)-1])
	}
	return first + "." + last + "@" + domain, true
}

// SplitName splits a full name at the first space: first token is the given
// name, the remainder the family name. A single-token name has an empty
// family name.
func SplitName(full string) (given, family string) {
	given, family, _ = strings.Cut(full, " ")
	return given, family
}
