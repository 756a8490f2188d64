// Package slug derives URL-safe identifiers from template names. Names are
// typically Vietnamese, so the transform folds diacritics to plain Latin
// before the usual lowercase-and-hyphenate pass.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder decomposes accented letters and strips the combining marks.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// đ/Đ carry no combining mark and survive NFD, map them by hand.
var dReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// Make folds name to ASCII, lowercases it, drops everything outside
// [a-z0-9 -], and collapses whitespace and hyphen runs into single hyphens
// with none left at either end.
func Make(name string) string {
	folded, _, err := transform.String(folder, dReplacer.Replace(name))
	if err != nil {
		folded = name
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-':
			pendingHyphen = true
		}
	}
	return b.String()
}
