package resolution

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldAccents strips combining marks after canonical decomposition:
// "Paysandú" becomes "Paysandu".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// AccentedLetters and PlainLetters are positional pairs for SQL translate(),
// so stored values can be folded the same way FoldAccents folds the input.
const (
	AccentedLetters = "áàâãäåéèêëíìîïóòôõöúùûüñçýÿ"
	PlainLetters    = "aaaaaaeeeeiiiiooooouuuuncyy"
)

// LocationKey returns the lower-cased, trimmed form a departamento or
// localidad filter compares against, accent-folded when foldAccents is set.
func LocationKey(s string, foldAccents bool) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if foldAccents {
		key = FoldAccents(key)
	}
	return key
}
