// Package service contains guide search workflows over an atomically swapped catalog snapshot
package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"tomotrip/internal/core/guidefilter"
	perr "tomotrip/internal/platform/errors"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/metrics"
	"tomotrip/internal/services/api/guides/domain"
	"tomotrip/internal/services/api/guides/repo"
)

// Service defines the service contract for guides
type Service interface {
	domain.ServicePort
	Reload(ctx context.Context) error
	Run(ctx context.Context, every time.Duration) error
}

// Options tune the service; zero values pick defaults
type Options struct {
	// PerPage is the page size when a request does not ask for one
	PerPage int
	// Now is the clock, time.Now when nil
	Now func() time.Time
}

type snapshot struct {
	cat      *guidefilter.Catalog
	source   string
	loadedAt time.Time
}

// Svc implements the Service interface
type Svc struct {
	src  repo.Source
	sink repo.EventSink
	opt  Options

	cur atomic.Pointer[snapshot]
}

var _ Service = (*Svc)(nil)

// New creates a guides service; call Reload before serving
func New(src repo.Source, sink repo.EventSink, opt Options) *Svc {
	if src == nil {
		panic("guides.Service requires a non nil Source")
	}
	if sink == nil {
		sink = repo.NopSink{}
	}
	if opt.PerPage <= 0 {
		opt.PerPage = guidefilter.DefaultPerPage
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Svc{src: src, sink: sink, opt: opt}
}

// Reload loads the catalog from the source and swaps it in
// on failure the previous snapshot keeps serving
func (s *Svc) Reload(ctx context.Context) error {
	log := logger.C(ctx).With().Str("component", "guides").Str("source", s.src.Name()).Logger()

	records, err := s.src.Load(ctx)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("catalog load failed")
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "guide catalog load failed")
	}
	cat, err := guidefilter.NewCatalog(records)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("catalog rejected")
		return perr.Wrap(err, perr.ErrorCodeValidation, err.Error())
	}

	prev := s.cur.Swap(&snapshot{cat: cat, source: s.src.Name(), loadedAt: s.opt.Now()})
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	metrics.CatalogSize.Set(float64(cat.Len()))

	evt := log.Info().Int("guides", cat.Len())
	if prev != nil {
		evt = evt.Int("previous", prev.cat.Len())
	}
	evt.Msg("catalog loaded")
	return nil
}

// Run reloads every interval until ctx is done; a non positive interval returns at once
// reload failures are logged and retried on the next tick
func (s *Svc) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return nil
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			_ = s.Reload(ctx)
		}
	}
}

func (s *Svc) snapshot() (*snapshot, error) {
	snap := s.cur.Load()
	if snap == nil {
		return nil, perr.Unavailablef("guide catalog not loaded")
	}
	return snap, nil
}

// Search filters the catalog with the submitted form
func (s *Svc) Search(ctx context.Context, in domain.SearchInput) (domain.SearchResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.SearchResult{}, err
	}
	q := in.FilterQuery()
	matched := snap.cat.Filter(q)
	total := snap.cat.Len()

	outcome := "match"
	if len(matched) == 0 {
		outcome = "empty"
	}
	metrics.GuideSearches.WithLabelValues(outcome).Inc()
	metrics.GuideSearchMatched.Observe(float64(len(matched)))
	s.record(ctx, q, len(matched), total)

	return s.result(matched, total, q, in.Page, in.PerPage), nil
}

// List pages through the whole catalog, the view shown after a reset
func (s *Svc) List(_ context.Context, page, perPage int) (domain.SearchResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.SearchResult{}, err
	}
	q := guidefilter.Reset()
	return s.result(snap.cat.Filter(q), snap.cat.Len(), q, page, perPage), nil
}

// Get returns one guide by id
func (s *Svc) Get(_ context.Context, id string) (domain.Guide, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Guide{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "guide id is required"), "id")
	}
	snap, err := s.snapshot()
	if err != nil {
		return domain.Guide{}, err
	}
	g, ok := snap.cat.Get(id)
	if !ok {
		return domain.Guide{}, perr.NotFoundf("guide %q not found", id)
	}
	return domain.GuideFrom(g), nil
}

// ResetQuery is the query the reset button restores
func (s *Svc) ResetQuery() domain.Query { return domain.QueryFrom(guidefilter.Reset()) }

// Catalog describes the snapshot currently served
func (s *Svc) Catalog() domain.CatalogInfo {
	snap := s.cur.Load()
	if snap == nil {
		return domain.CatalogInfo{Source: s.src.Name()}
	}
	return domain.CatalogInfo{
		Loaded:   true,
		Size:     snap.cat.Len(),
		Source:   snap.source,
		LoadedAt: snap.loadedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Svc) result(matched []guidefilter.GuideRecord, total int, q guidefilter.FilterQuery, page, perPage int) domain.SearchResult {
	if perPage <= 0 {
		perPage = s.opt.PerPage
	}
	window, p := guidefilter.Paginate(matched, page, perPage)
	guides := make([]domain.Guide, 0, len(window))
	for _, g := range window {
		guides = append(guides, domain.GuideFrom(g))
	}
	return domain.SearchResult{
		Guides:  guides,
		Summary: guidefilter.Summarize(len(matched), total),
		Page:    p,
		Query:   domain.QueryFrom(q),
	}
}

// record hands the analytics event to the sink; failures never reach the caller.
// The sink must not block, production wires repo.AsyncSink
func (s *Svc) record(ctx context.Context, q guidefilter.FilterQuery, matched, total int) {
	err := s.sink.Record(ctx, repo.SearchEvent{
		At:       s.opt.Now(),
		Location: q.Location,
		Language: q.Language,
		MaxFee:   q.MaxFee,
		Keywords: q.Keywords,
		Matched:  matched,
		Total:    total,
	})
	if err != nil {
		metrics.EventSinkErrors.Inc()
		logger.C(ctx).Warn().Err(err).Str("component", "guides").Msg("search event not recorded")
	}
}
