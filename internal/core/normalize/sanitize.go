package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// junk is any control character other than the whitespace ones Fold collapses anyway
func junk(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t'
}

// Sanitize drops invalid UTF-8 and control characters (C0, DEL, C1) except tab and line breaks.
// Guide fields come from hand edited seed files, so Fold runs it first.
func Sanitize(s string) string {
	if utf8.ValidString(s) && strings.IndexFunc(s, junk) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if junk(r) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}
