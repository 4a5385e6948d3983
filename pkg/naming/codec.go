// Package naming implements the bidirectional mapping between canonical
// keyword keys (lower_case, underscore separated) and their public display
// names (CapitalizedWords). Every lookup and enumeration in the library core
// goes through this codec.
package naming

import (
	"strings"
	"unicode"
)

// Separator joins the words of a canonical keyword key.
const Separator = "_"

// Encode converts a public keyword name to its canonical key:
// "GreetUser" -> "greet_user". Already-canonical input passes through
// unchanged, so Encode(Encode(x)) == Encode(x).
func Encode(public string) string {
	var b strings.Builder
	b.Grow(len(public) + 4)
	for i, r := range public {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteString(Separator)
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Decode converts a canonical key to its public name:
// "greet_user" -> "GreetUser". Empty words (from doubled separators) are
// dropped.
func Decode(key string) string {
	words := strings.Split(key, Separator)
	var b strings.Builder
	b.Grow(len(key))
	for _, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}

// IsCanonical reports whether name is already in canonical key form,
// i.e. contains no uppercase letters.
func IsCanonical(name string) bool {
	return !strings.ContainsFunc(name, unicode.IsUpper)
}
