package guidefilter

import "fmt"

// DefaultPerPage is one 3x4 grid of guide cards
const DefaultPerPage = 12

// NoResultsMessage is shown in place of the card grid when nothing matched
const NoResultsMessage = "条件に一致するガイドが見つかりませんでした"

// Summary is the display side of a filter run
type Summary struct {
	Matched   int    `json:"matched"`
	Total     int    `json:"total"`
	Text      string `json:"text"`
	NoResults bool   `json:"no_results"`
	Message   string `json:"message,omitempty"`
}

// Summarize builds the result counter shown above the grid
func Summarize(matched, total int) Summary {
	s := Summary{Matched: matched, Total: total}
	if matched == total {
		s.Text = fmt.Sprintf("全%d件のガイドを表示中", total)
	} else {
		s.Text = fmt.Sprintf("%d件のガイドが見つかりました（全%d件中）", matched, total)
	}
	if matched == 0 {
		s.NoResults = true
		s.Message = NoResultsMessage
	}
	return s
}

// Page describes one window of a paginated result
type Page struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

// HasNext reports whether a later page exists
func (p Page) HasNext() bool { return p.Page < p.Pages }

// Paginate returns the 1-based page window of items. page below 1 is treated as 1,
// perPage of 0 or less uses DefaultPerPage, and pages past the end yield an empty slice
func Paginate[T any](items []T, page, perPage int) ([]T, Page) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	n := len(items)
	p := Page{Page: page, PerPage: perPage, Total: n, Pages: (n + perPage - 1) / perPage}

	start := (page - 1) * perPage
	if start >= n {
		return []T{}, p
	}
	end := min(start+perPage, n)
	return items[start:end:end], p
}
