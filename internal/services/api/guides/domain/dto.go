// Package domain holds DTOs for guides http and service contracts
package domain

import (
	"strings"
	"unicode/utf8"

	"tomotrip/internal/core/guidefilter"
)

// SearchInput is the filter form as submitted by the guide search page.
// Filter fields are lenient: a malformed or oversized value is dropped, never rejected
type SearchInput struct {
	Location       string   `json:"location,omitempty"        example:"Tokyo"`
	Language       string   `json:"language,omitempty"        example:"English"`
	MaxFee         Fee      `json:"max_fee,omitzero"          example:"5000"`
	Keywords       []string `json:"keywords,omitempty"        example:"night,food"`
	CustomKeywords string   `json:"custom_keywords,omitempty" example:"temples, sake"`
	Page           int      `json:"page,omitempty"            example:"1"       validate:"omitempty,min=1"`
	PerPage        int      `json:"per_page,omitempty"        example:"12"      validate:"omitempty,min=1,max=96"`
}

// Longest filter values honoured; longer ones are ignored
const (
	MaxLocationLen = 200
	MaxLanguageLen = 64
	MaxKeywordLen  = 64
	MaxKeywords    = 32
	MaxCustomLen   = 500
)

// FilterQuery is the effective filter of the form
func (in SearchInput) FilterQuery() guidefilter.FilterQuery {
	kws := make([]string, 0, len(in.Keywords))
	for _, k := range in.Keywords {
		if fits(k, MaxKeywordLen) {
			kws = append(kws, k)
		}
	}
	custom := in.CustomKeywords
	if !fits(custom, MaxCustomLen) {
		custom = ""
	}
	q := guidefilter.FilterQuery{
		MaxFee:   in.MaxFee.Ptr(),
		Keywords: guidefilter.ParseKeywords(kws, custom),
	}
	if len(q.Keywords) > MaxKeywords {
		q.Keywords = q.Keywords[:MaxKeywords]
	}
	if loc := strings.TrimSpace(in.Location); fits(loc, MaxLocationLen) {
		q.Location = loc
	}
	if lang := strings.TrimSpace(in.Language); fits(lang, MaxLanguageLen) {
		q.Language = lang
	}
	return q
}

func fits(s string, n int) bool { return utf8.RuneCountInString(s) <= n }

// ListInput is the paging of the unfiltered catalog view
type ListInput struct {
	Page    int `json:"page"     validate:"omitempty,min=1"`
	PerPage int `json:"per_page" validate:"omitempty,min=1,max=96"`
}

// Guide is the public card for one guide
type Guide struct {
	ID                 string   `json:"id"                    example:"g1"`
	Name               string   `json:"name"                  example:"Aiko"`
	Location           string   `json:"location"              example:"Tokyo Shibuya"`
	Languages          []string `json:"languages"             example:"Japanese,English"`
	HourlyFee          int      `json:"hourly_fee"            example:"5000"`
	Keywords           []string `json:"keywords"              example:"night,food"`
	Description        string   `json:"description,omitempty" example:"Izakaya crawls around Shibuya"`
	VerificationStatus string   `json:"verification_status"   example:"verified"`
}

// Query is the effective filter after keyword merging
type Query struct {
	Location string   `json:"location"`
	Language string   `json:"language"`
	MaxFee   *int     `json:"max_fee"`
	Keywords []string `json:"keywords"`
	Active   []string `json:"active"`
}

// Summary is the counter and empty state shown above the grid
type Summary = guidefilter.Summary

// PageInfo describes the returned window of the matched guides
type PageInfo = guidefilter.Page

// SearchResult is the reply to a search or list call
type SearchResult struct {
	Guides  []Guide  `json:"guides"`
	Summary Summary  `json:"summary"`
	Page    PageInfo `json:"page"`
	Query   Query    `json:"query"`
}

// CatalogInfo describes the catalog snapshot currently served
type CatalogInfo struct {
	Loaded   bool   `json:"loaded"              example:"true"`
	Size     int    `json:"size"                example:"120"`
	Source   string `json:"source"              example:"pg"`
	LoadedAt string `json:"loaded_at,omitempty" example:"2025-09-03T13:00:00Z"`
}

// GuideFrom maps a catalog record to its public card
func GuideFrom(g guidefilter.GuideRecord) Guide {
	return Guide{
		ID:                 g.ID,
		Name:               g.Name,
		Location:           g.Location,
		Languages:          nonNil(g.Languages),
		HourlyFee:          g.HourlyFee,
		Keywords:           nonNil(g.Keywords),
		Description:        g.Description,
		VerificationStatus: string(g.Verification),
	}
}

// QueryFrom describes a filter query for the client
func QueryFrom(q guidefilter.FilterQuery) Query {
	return Query{
		Location: q.Location,
		Language: q.Language,
		MaxFee:   q.MaxFee,
		Keywords: nonNil(q.Keywords),
		Active:   q.Active(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
