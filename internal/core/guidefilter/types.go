// Package guidefilter implements the guide catalog filter: a pure, order preserving
// selection over an in-memory list of guide records
//
// All matching is case and width insensitive (see internal/core/normalize). Constraints
// that are blank, absent, or malformed are inactive and never raise errors
package guidefilter

// VerificationStatus is the identity verification state of a guide
type VerificationStatus string

const (
	// VerificationUnverified is the default for a newly registered guide
	VerificationUnverified VerificationStatus = "unverified"
	// VerificationPending means documents were submitted and await review
	VerificationPending VerificationStatus = "pending"
	// VerificationVerified means an operator approved the guide
	VerificationVerified VerificationStatus = "verified"
	// VerificationRejected means an operator rejected the documents
	VerificationRejected VerificationStatus = "rejected"
)

// Valid reports whether s is one of the known states
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationUnverified, VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// GuideRecord is one bookable local guide
type GuideRecord struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Location     string             `json:"location"`
	Languages    []string           `json:"languages"`
	HourlyFee    int                `json:"hourly_fee"`
	Keywords     []string           `json:"keywords"`
	Description  string             `json:"description,omitempty"`
	Verification VerificationStatus `json:"verification_status"`
}

// Clone returns a deep copy so callers cannot reach back into a catalog's slices
func (g GuideRecord) Clone() GuideRecord {
	c := g
	c.Languages = append([]string(nil), g.Languages...)
	c.Keywords = append([]string(nil), g.Keywords...)
	return c
}

// FilterQuery is the set of user selected constraints
// zero value is the reset query and matches every guide
type FilterQuery struct {
	// Location must appear as a substring of the guide location. Region names such as
	// hokkaido or 沖縄 match any place inside the region
	Location string
	// Language must equal one of the guide languages
	Language string
	// MaxFee is an inclusive upper bound on the hourly fee; nil, zero or negative is inactive
	MaxFee *int
	// Keywords match when any one is shared with the guide tags
	Keywords []string
}

// Any is the dropdown choice that leaves location or language unconstrained
const Any = "すべて"

// Fee is a small helper for building a MaxFee bound inline
func Fee(n int) *int { return &n }

// Reset returns the canonical query with no active constraints
func Reset() FilterQuery { return FilterQuery{} }

// Active lists the names of the constraints that participate in matching, in a fixed order
func (q FilterQuery) Active() []string {
	m := compile(q)
	out := make([]string, 0, 4)
	if len(m.locations) > 0 {
		out = append(out, "location")
	}
	if m.language != "" {
		out = append(out, "language")
	}
	if m.hasFee {
		out = append(out, "max_fee")
	}
	if len(m.keywords) > 0 {
		out = append(out, "keywords")
	}
	return out
}

// IsReset reports whether q has no active constraints
func (q FilterQuery) IsReset() bool { return len(q.Active()) == 0 }
