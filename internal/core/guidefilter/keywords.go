package guidefilter

import "strings"

// ParseKeywords merges the ticked keyword checkboxes with the comma separated free text
// field. Entries are trimmed, blanks are dropped, and the first spelling of a repeated
// keyword wins. Full-width commas are accepted as separators
func ParseKeywords(checked []string, custom string) []string {
	out := make([]string, 0, len(checked)+4)
	seen := make(map[string]struct{}, len(checked)+4)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	for _, c := range checked {
		add(c)
	}
	for _, c := range strings.FieldsFunc(custom, isKeywordSep) {
		add(c)
	}
	return out
}

func isKeywordSep(r rune) bool {
	switch r {
	case ',', '，', '、':
		return true
	}
	return false
}
