package guidefilter

import (
	"strings"

	"tomotrip/internal/core/normalize"
)

// matcher is a FilterQuery folded once so each record comparison is cheap
type matcher struct {
	// locations are alternatives; a region name expands to the places inside it
	locations []string
	language  string
	maxFee    int
	hasFee    bool
	keywords  []string
}

// folded holds the comparable form of a GuideRecord
type folded struct {
	location  string
	languages []string
	keywords  map[string]struct{}
	fee       int
}

func compile(q FilterQuery) matcher {
	m := matcher{
		locations: expandLocation(choice(q.Location)),
		language:  choice(q.Language),
		keywords:  dedupe(normalize.FoldAll(q.Keywords)),
	}
	if q.MaxFee != nil && *q.MaxFee > 0 {
		m.maxFee = *q.MaxFee
		m.hasFee = true
	}
	return m
}

// choice folds a dropdown value; blank and Any select nothing
func choice(s string) string {
	s = normalize.Fold(s)
	if s == anyFolded {
		return ""
	}
	return s
}

var anyFolded = normalize.Fold(Any)

// regions are the location filters that stand for several places
var regions = []struct {
	names  []string
	places []string
}{
	{[]string{"hokkaido", "北海道"}, []string{"北海道", "札幌", "函館", "旭川", "hokkaido", "sapporo"}},
	{[]string{"okinawa", "沖縄"}, []string{"沖縄", "okinawa", "那覇", "石垣", "宮古"}},
}

func expandLocation(loc string) []string {
	if loc == "" {
		return nil
	}
	for _, r := range regions {
		for _, n := range r.names {
			if strings.Contains(loc, n) {
				return r.places
			}
		}
	}
	return []string{loc}
}

func foldRecord(g GuideRecord) folded {
	f := folded{
		location:  normalize.Fold(g.Location),
		languages: normalize.FoldAll(g.Languages),
		keywords:  make(map[string]struct{}, len(g.Keywords)),
		fee:       g.HourlyFee,
	}
	for _, k := range normalize.FoldAll(g.Keywords) {
		f.keywords[k] = struct{}{}
	}
	return f
}

func (m matcher) match(f folded) bool {
	if len(m.locations) > 0 && !containsAny(f.location, m.locations) {
		return false
	}
	if m.language != "" && !contains(f.languages, m.language) {
		return false
	}
	if m.hasFee && f.fee > m.maxFee {
		return false
	}
	if len(m.keywords) > 0 && !m.matchKeywords(f) {
		return false
	}
	return true
}

// matchKeywords is true when any query keyword is a guide tag, or, as the legacy search
// box did, when any query keyword appears inside the guide location
func (m matcher) matchKeywords(f folded) bool {
	for _, k := range m.keywords {
		if _, ok := f.keywords[k]; ok {
			return true
		}
	}
	for _, k := range m.keywords {
		if strings.Contains(f.location, k) {
			return true
		}
	}
	return false
}

// Filter returns the guides in catalog that satisfy every active constraint of q,
// preserving catalog order. The result is never nil and catalog is not modified
func Filter(catalog []GuideRecord, q FilterQuery) []GuideRecord {
	m := compile(q)
	out := make([]GuideRecord, 0, len(catalog))
	for _, g := range catalog {
		if m.match(foldRecord(g)) {
			out = append(out, g)
		}
	}
	return out
}

// Count is len(Filter(catalog, q)) without building the result
func Count(catalog []GuideRecord, q FilterQuery) int {
	m := compile(q)
	n := 0
	for _, g := range catalog {
		if m.match(foldRecord(g)) {
			n++
		}
	}
	return n
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
