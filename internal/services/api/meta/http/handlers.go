// Package http serves the meta endpoints: liveness, readiness, build and catalog info
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tomotrip/internal/core/version"
	"tomotrip/internal/modkit/httpkit"
	"tomotrip/internal/platform/store"
	guidesdom "tomotrip/internal/services/api/guides/domain"

	"golang.org/x/sync/errgroup"
)

// Checker pings a named backend; store.ErrDisabled means it is not configured
type Checker interface {
	Check(ctx context.Context, name string) error
}

// CatalogSource reports the guide catalog snapshot being served
type CatalogSource interface {
	Catalog() guidesdom.CatalogInfo
}

// Deps are what the meta handlers report on. Nil Store and Catalog are skipped.
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Store       Checker
	Catalog     CatalogSource
	// Backends are probed by /ready, pg ch redis when empty
	Backends []string
	// ReadyTimeout bounds all backend probes together, 2s when zero
	ReadyTimeout time.Duration
}

// Check states reported by /ready
const (
	StatusOK      = "ok"
	StatusFail    = "fail"
	StatusSkipped = "skipped"
)

// HealthResponse is the liveness reply
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck is the outcome of one probe
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse fails as a whole when any probe fails; skipped probes do not count
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse names the running service and how long it has been up
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

type handlers struct{ Deps }

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	if len(d.Backends) == 0 {
		d.Backends = []string{"pg", "ch", "redis"}
	}
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := handlers{d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/catalog", h.catalog)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: stamp(h.StartedAt), Now: stamp(time.Now())}, nil
}

// ready probes every backend concurrently, then the catalog. Any failure answers 503.
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.ReadyTimeout)
	defer cancel()

	checks := make([]ReadyCheck, len(h.Backends), len(h.Backends)+1)
	var g errgroup.Group
	for i, name := range h.Backends {
		g.Go(func() error {
			checks[i] = h.probe(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	checks = append(checks, h.catalogCheck())

	resp := ReadyResponse{Status: StatusOK, Checks: checks, Now: stamp(time.Now())}
	for _, c := range checks {
		if c.Status == StatusFail {
			resp.Status = StatusFail
			return httpkit.WithStatus(http.StatusServiceUnavailable, resp), nil
		}
	}
	return resp, nil
}

func (h handlers) probe(ctx context.Context, name string) ReadyCheck {
	c := ReadyCheck{Name: name, Status: StatusSkipped}
	if h.Store == nil {
		return c
	}
	switch err := h.Store.Check(ctx, name); {
	case errors.Is(err, store.ErrDisabled):
	case err != nil:
		c.Status, c.Error = StatusFail, err.Error()
	default:
		c.Status = StatusOK
	}
	return c
}

// catalogCheck fails until the first snapshot is loaded
func (h handlers) catalogCheck() ReadyCheck {
	c := ReadyCheck{Name: "catalog", Status: StatusSkipped}
	if h.Catalog == nil {
		return c
	}
	if h.Catalog.Catalog().Loaded {
		c.Status = StatusOK
	} else {
		c.Status, c.Error = StatusFail, "guide catalog not loaded"
	}
	return c
}

func (h handlers) version(*http.Request) (any, error) {
	return version.Info(h.ServiceName), nil
}

func (h handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: stamp(h.StartedAt),
		Uptime:  int64(time.Since(h.StartedAt) / time.Second),
	}, nil
}

func (h handlers) catalog(*http.Request) (any, error) {
	if h.Catalog == nil {
		return guidesdom.CatalogInfo{}, nil
	}
	return h.Catalog.Catalog(), nil
}
