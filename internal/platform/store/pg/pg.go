// Package pg opens the pgx pool behind the store's sql seam
package pg

import (
	"context"
	"fmt"
	"time"

	"tomotrip/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool and its tracer
type Config struct {
	URL      string
	MaxConns int32
	// Slow queries log at warn regardless of LogSQL; 0 disables
	Slow   time.Duration
	LogSQL bool
}

var (
	newPool = pgxpool.NewWithConfig

	// readiness probing while the database container is still starting
	pingAttempts = 20
	pingTimeout  = 3 * time.Second
	backoffStart = 150 * time.Millisecond
	backoffMax   = 2 * time.Second
)

// Open parses cfg, installs the query tracer and waits until the server answers a ping
func Open(ctx context.Context, cfg Config, log logger.Logger) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pcfg.ConnConfig.Tracer = NewTracer(log, cfg.Slow, cfg.LogSQL)

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	if err := waitReady(ctx, pool.Ping); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// waitReady retries ping with capped exponential backoff
func waitReady(ctx context.Context, ping func(context.Context) error) error {
	var err error
	wait := backoffStart
	for i := 0; i < pingAttempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, backoffMax)
	}
	return fmt.Errorf("pg: not ready after %d pings: %w", pingAttempts, err)
}
