// Package strings normalizes locale codes used to select translations.
package strings

import (
	"strings"
)

// NormalizeLocale canonicalizes a locale code: surrounding whitespace is
// dropped, letters are lowercased and underscores become hyphens.
//
//	NormalizeLocale(" pt_BR ") // "pt-br"
func NormalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	return strings.ReplaceAll(l, "_", "-")
}

// LocaleSet normalizes locales and returns them as a set. Blank entries are
// skipped. A nil set means every locale is accepted.
func LocaleSet(locales []string) map[string]struct{} {
	var set map[string]struct{}
	for _, l := range locales {
		n := NormalizeLocale(l)
		if n == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(locales))
		}
		set[n] = struct{}{}
	}
	return set
}

// Accepts reports whether locale is in set. A nil set accepts everything.
func Accepts(set map[string]struct{}, locale string) bool {
	if set == nil {
		return true
	}
	_, ok := set[NormalizeLocale(locale)]
	return ok
}
