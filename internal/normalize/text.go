package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Clean collapses whitespace, trims, and uppercases the input. This is the
// canonical form for output text fields (municipality, department, village).
func Clean(s string) string {
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.ToUpper(strings.TrimSpace(s))
}

// Fold lowercases the input, strips diacritics and trims it. All heuristic
// substring matching runs over folded text so that "Área" matches "area"
// and "antiamarílica" matches "antiamarilica".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ContainsFold reports whether folded(s) contains folded(substr).
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// ContainsAnyFold reports whether folded(s) contains any of the folded terms.
func ContainsAnyFold(s string, terms []string) bool {
	f := Fold(s)
	for _, term := range terms {
		if strings.Contains(f, Fold(term)) {
			return true
		}
	}
	return false
}
