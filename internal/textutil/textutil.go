// Package textutil holds the string normalization helpers shared by the
// providers: Clean for whitespace/punctuation cleanup, Title for filename
// title-casing, and Unidecode for ASCII transliteration.
package textutil

import (
	"strings"
	"unicode"

	unidecode "github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Clean normalizes a string for use in titles and filenames: stray
// punctuation is dropped, all whitespace runs collapse to a single space,
// and leading/trailing whitespace is trimmed. Letters, digits, underscores,
// hyphens, and periods survive. Clean is idempotent.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true // trims leading spaces
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		if !keepRune(r) {
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

func keepRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '_', '-', '.':
		return true
	}
	return false
}

// Title converts s to English title case, capitalizing each word.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// Unidecode transliterates s to its closest ASCII form (é -> e,
// Привет -> Privet, 中 -> Zhong). Runes with no known romanization are
// dropped, so the result is always pure ASCII.
func Unidecode(s string) string {
	folded := unidecode.Unidecode(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
