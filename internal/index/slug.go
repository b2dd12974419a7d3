package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// lower is the language-neutral lowercaser used by Slugify.
// Created once; cases.Caser values are cheap to reuse.
var lower = cases.Lower(language.Und)

// deaccent strips combining marks after NFD decomposition, so accented
// heading text ("Déjà vu") slugs the same on every platform.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe anchor identifier from heading text.
//
// The algorithm is applied identically to generated slugs and to explicit
// [#anchor] overrides, and it is a fixed point: Slugify(Slugify(s)) ==
// Slugify(s). Steps: decompose and drop diacritics, lowercase, map
// whitespace and underscores to hyphens, drop all other punctuation,
// collapse hyphen runs, trim leading/trailing hyphens.
func Slugify(text string) string {
	flattened, _, err := transform.String(deaccent, text)
	if err != nil {
		// Transform failures only happen on invalid UTF-8; fall back to
		// the raw text so we still produce a usable slug.
		flattened = text
	}

	flattened = lower.String(flattened)

	var sb strings.Builder
	sb.Grow(len(flattened))

	prevHyphen := true // Swallows leading hyphens.
	for _, r := range flattened {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !prevHyphen {
				sb.WriteByte('-')
				prevHyphen = true
			}
		default:
			// Punctuation and symbols are stripped entirely.
		}
	}

	return strings.TrimRight(sb.String(), "-")
}
