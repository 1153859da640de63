package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tomotrip/internal/core/guidefilter"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/metrics"
	"tomotrip/internal/platform/store"
)

// DefaultCacheKey is where the catalog snapshot lives in redis
const DefaultCacheKey = "tomotrip:guides:catalog:v1"

// snapshot is the cached payload
type snapshot struct {
	Source  string                    `json:"source"`
	SavedAt time.Time                 `json:"saved_at"`
	Guides  []guidefilter.GuideRecord `json:"guides"`
}

// Cached serves the catalog from a redis snapshot and falls back to the inner source
// cache failures are logged and never fail a load
type Cached struct {
	Inner Source
	KV    store.KV
	Key   string
	TTL   time.Duration
}

// NewCached wraps inner with a snapshot cache; a nil kv returns inner unchanged
func NewCached(inner Source, kv store.KV, ttl time.Duration) Source {
	if kv == nil {
		return inner
	}
	return &Cached{Inner: inner, KV: kv, Key: DefaultCacheKey, TTL: ttl}
}

// Name implements Source
func (c *Cached) Name() string { return c.Inner.Name() + "+redis" }

// Load implements Source
func (c *Cached) Load(ctx context.Context) ([]guidefilter.GuideRecord, error) {
	log := logger.C(ctx).With().Str("component", "guides.cache").Str("key", c.Key).Logger()

	raw, err := c.KV.Get(ctx, c.Key)
	switch {
	case err == nil:
		var snap snapshot
		jerr := json.Unmarshal(raw, &snap)
		if jerr == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return snap.Guides, nil
		}
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.Warn().Err(jerr).Msg("corrupt catalog snapshot, reloading")
	case errors.Is(err, store.ErrMiss):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.Warn().Err(err).Msg("catalog cache read failed")
	}

	guides, err := c.Inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(snapshot{Source: c.Inner.Name(), SavedAt: time.Now().UTC(), Guides: guides})
	if err != nil {
		log.Warn().Err(err).Msg("catalog snapshot encode failed")
		return guides, nil
	}
	if err := c.KV.Set(ctx, c.Key, b, c.TTL); err != nil {
		log.Warn().Err(err).Msg("catalog cache write failed")
	}
	return guides, nil
}

// Invalidate drops the snapshot so the next Load reads the inner source
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.KV.Del(ctx, c.Key)
}
