// Package normalize folds free text into the comparable form the guide filter
// matches on: NFKC, case folded, width folded, with invisible marks removed
// and whitespace collapsed to single spaces.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// invisible covers combining marks and format characters such as ZWSP and BOM
var invisible = runes.Predicate(func(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Cf)
})

// folders hands out transformer chains; a chain is stateful so each Fold owns one
var folders = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFKC, cases.Fold(), runes.Remove(invisible), width.Fold)
	},
}

// Fold returns the comparable form of s. Fold is idempotent.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	t := folders.Get().(transform.Transformer)
	t.Reset()
	out, _, err := transform.String(t, s)
	folders.Put(t)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

// FoldAll folds every element and drops the ones that fold to nothing
func FoldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := Fold(s); f != "" {
			out = append(out, f)
		}
	}
	return out
}
