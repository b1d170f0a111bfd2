package core

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldReplacer maps the Turkish letter forms to their base Latin letter.
// Uppercase entries are kept even though Turkish lowercasing removes them,
// so the table stays the single source of truth for folding.
var foldReplacer = strings.NewReplacer(
	"İ", "i", "I", "i", "ı", "i",
	"Ü", "u", "ü", "u",
	"Ö", "o", "ö", "o",
	"Ç", "c", "ç", "c",
	"Ğ", "g", "ğ", "g",
	"Ş", "s", "ş", "s",
)

// cases.Caser is stateful and must not be shared between goroutines.
var turkishLower = sync.Pool{
	New: func() any {
		c := cases.Lower(language.Turkish)
		return &c
	},
}

// Normalize folds text to the canonical form used for comparisons:
// Turkish lowercasing followed by the fixed letter folding table.
// Empty input returns "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	c := turkishLower.Get().(*cases.Caser)
	lowered := c.String(s)
	turkishLower.Put(c)

	return foldReplacer.Replace(lowered)
}

// NormalizedContains reports whether Normalize(s) contains needle.
// needle must already be normalized.
func NormalizedContains(s, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Normalize(s), needle)
}
