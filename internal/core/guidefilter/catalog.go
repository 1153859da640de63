package guidefilter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord is wrapped by every NewCatalog validation failure
var ErrInvalidRecord = errors.New("guidefilter: invalid guide record")

// Catalog is an immutable, validated, ordered set of guides with their folded match keys
// precomputed. Safe for concurrent readers
type Catalog struct {
	records []GuideRecord
	folded  []folded
	byID    map[string]int
}

// NewCatalog validates records and takes a deep copy of them. Strings are trimmed and
// blank languages or keywords are dropped before validation. A missing verification
// status defaults to unverified
func NewCatalog(records []GuideRecord) (*Catalog, error) {
	c := &Catalog{
		records: make([]GuideRecord, 0, len(records)),
		folded:  make([]folded, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for i, r := range records {
		g := tidy(r)
		if err := validate(g); err != nil {
			return nil, fmt.Errorf("%w: record %d (id %q): %v", ErrInvalidRecord, i, g.ID, err)
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate id %q", ErrInvalidRecord, i, g.ID)
		}
		c.byID[g.ID] = len(c.records)
		c.records = append(c.records, g)
		c.folded = append(c.folded, foldRecord(g))
	}
	return c, nil
}

func tidy(r GuideRecord) GuideRecord {
	g := r.Clone()
	g.ID = strings.TrimSpace(g.ID)
	g.Name = strings.TrimSpace(g.Name)
	g.Location = strings.TrimSpace(g.Location)
	g.Description = strings.TrimSpace(g.Description)
	g.Languages = trimAll(g.Languages)
	g.Keywords = trimAll(g.Keywords)
	if g.Verification == "" {
		g.Verification = VerificationUnverified
	}
	return g
}

func validate(g GuideRecord) error {
	switch {
	case g.ID == "":
		return errors.New("id is required")
	case g.Name == "":
		return errors.New("name is required")
	case g.HourlyFee < 0:
		return fmt.Errorf("hourly fee %d is negative", g.HourlyFee)
	case len(g.Languages) == 0:
		return errors.New("at least one language is required")
	case !g.Verification.Valid():
		return fmt.Errorf("unknown verification status %q", g.Verification)
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Len is the number of guides
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns a deep copy of every guide in catalog order
func (c *Catalog) Records() []GuideRecord {
	if c == nil {
		return []GuideRecord{}
	}
	out := make([]GuideRecord, len(c.records))
	for i, g := range c.records {
		out[i] = g.Clone()
	}
	return out
}

// Get looks a guide up by id
func (c *Catalog) Get(id string) (GuideRecord, bool) {
	if c == nil {
		return GuideRecord{}, false
	}
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return GuideRecord{}, false
	}
	return c.records[i].Clone(), true
}

// Filter is the package level Filter over this catalog, using the precomputed keys.
// Returned records are copies
func (c *Catalog) Filter(q FilterQuery) []GuideRecord {
	if c == nil {
		return []GuideRecord{}
	}
	m := compile(q)
	out := make([]GuideRecord, 0, len(c.records))
	for i := range c.records {
		if m.match(c.folded[i]) {
			out = append(out, c.records[i].Clone())
		}
	}
	return out
}

// Count is len(c.Filter(q)) without copying
func (c *Catalog) Count(q FilterQuery) int {
	if c == nil {
		return 0
	}
	m := compile(q)
	n := 0
	for i := range c.folded {
		if m.match(c.folded[i]) {
			n++
		}
	}
	return n
}
