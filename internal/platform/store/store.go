// Package store opens the optional backends behind the guide catalog:
// postgres for the catalog itself, redis for the snapshot cache and
// clickhouse for search analytics. Disabled backends stay nil.
package store

import (
	"context"
	"errors"
	"fmt"

	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/store/rds"
)

// ErrMiss is returned by KV.Get for absent keys
var ErrMiss = rds.ErrMiss

// ErrDisabled reports a backend that was not configured
var ErrDisabled = errors.New("store: backend disabled")

// Store holds one seam per backend; the zero value has none and is safe to use
type Store struct {
	// Log reaches the pg tracer; the zero logger discards
	Log logger.Logger

	PG TxRunner
	CH Clickhouse
	KV KV
}

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger hands log to the backends
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open connects every backend cfg enables, in pg, ch, redis order.
// On failure the backends already opened are closed again.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	steps := []struct {
		on   bool
		open func() error
	}{
		{cfg.PG.Enabled, func() (err error) { s.PG, err = openPG(ctx, cfg, s); return }},
		{cfg.CH.Enabled, func() (err error) { s.CH, err = openCH(ctx, cfg); return }},
		{cfg.RDS.Enabled, func() (err error) { s.KV, err = openRDS(ctx, cfg); return }},
	}
	for _, st := range steps {
		if !st.on {
			continue
		}
		if err := st.open(); err != nil {
			s.closeOpened()
			return nil, err
		}
	}
	return s, nil
}

type named struct {
	name string
	seam any
}

// seams lists the configured backends under their readiness names
func (s *Store) seams() []named {
	var out []named
	if s.PG != nil {
		out = append(out, named{"pg", s.PG})
	}
	if s.CH != nil {
		out = append(out, named{"ch", s.CH})
	}
	if s.KV != nil {
		out = append(out, named{"redis", s.KV})
	}
	return out
}

// Guard pings every configured backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, n := range s.seams() {
		if p, ok := n.seam.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", n.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Check pings one backend by name ("pg", "ch" or "redis").
// A backend that is off, or cannot be pinged, reports ErrDisabled.
func (s *Store) Check(ctx context.Context, name string) error {
	if s == nil {
		return errors.New("nil store")
	}
	for _, n := range s.seams() {
		if p, ok := n.seam.(Pinger); ok && n.name == name {
			return p.Ping(ctx)
		}
	}
	return ErrDisabled
}

// Close releases every backend, redis first and postgres last
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	seams := s.seams()
	var errs []error
	for i := len(seams) - 1; i >= 0; i-- {
		if c, ok := seams[i].seam.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", seams[i].name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Store) closeOpened() {
	if err := s.Close(context.Background()); err != nil {
		s.Log.Warn().Err(err).Msg("store: close after failed open")
	}
}
