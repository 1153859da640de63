// Package repo provides catalog sources, the snapshot cache, and the search event sink for guides
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tomotrip/internal/core/guidefilter"
	"tomotrip/internal/modkit/repokit"
	"tomotrip/internal/platform/store"
)

// Source loads the full ordered guide catalog
type Source interface {
	Load(ctx context.Context) ([]guidefilter.GuideRecord, error)
	Name() string
}

// Static serves a fixed list, handy for tests and offline tools
type Static []guidefilter.GuideRecord

// Load returns a copy of the list
func (s Static) Load(context.Context) ([]guidefilter.GuideRecord, error) {
	out := make([]guidefilter.GuideRecord, len(s))
	for i, g := range s {
		out[i] = g.Clone()
	}
	return out, nil
}

// Name implements Source
func (Static) Name() string { return "static" }

// Select builds the catalog source named by kind, "pg" or "yaml", wrapped by the redis
// snapshot cache when kv is non nil
func Select(kind, seedFile string, db repokit.Queryer, kv store.KV, ttl time.Duration) (Source, error) {
	var inner Source
	switch kind {
	case "pg":
		if db == nil {
			return nil, errors.New("repo: pg source selected but postgres is disabled")
		}
		inner = NewPG().Bind(db)
	case "yaml":
		if strings.TrimSpace(seedFile) == "" {
			return nil, errors.New("repo: yaml source selected without a seed file")
		}
		inner = YAML{Path: seedFile}
	default:
		return nil, fmt.Errorf("repo: unknown catalog source %q", kind)
	}
	return NewCached(inner, kv, ttl), nil
}
