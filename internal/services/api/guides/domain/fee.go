package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Fee is the max_fee field of the search form. The page posts a number or the
// select value as a string; anything that is not a whole number leaves the bound unset
type Fee struct {
	n *int
}

// FeeOf is a set bound of n yen
func FeeOf(n int) Fee { return Fee{n: &n} }

// Ptr is the bound, nil when unset. The result is a copy
func (f Fee) Ptr() *int {
	if f.n == nil {
		return nil
	}
	v := *f.n
	return &v
}

// IsZero reports an unset bound, for omitzero
func (f Fee) IsZero() bool { return f.n == nil }

// UnmarshalJSON never fails; malformed input is an unset bound
func (f *Fee) UnmarshalJSON(b []byte) error {
	f.n = nil
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if n, ok := wholeNumber(raw); ok {
		f.n = &n
	}
	return nil
}

// MarshalJSON writes the bound or null
func (f Fee) MarshalJSON() ([]byte, error) {
	if f.n == nil {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(*f.n), 10), nil
}

// wholeNumber accepts 5000 and 5000.0 but not 5000.5, blanks, or values past int32
func wholeNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(n), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(v), true
}
