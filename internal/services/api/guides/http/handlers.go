// Package http provides http transport for guides
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"tomotrip/internal/modkit/httpkit"
	perr "tomotrip/internal/platform/errors"
	"tomotrip/internal/platform/net/http/bind"
	"tomotrip/internal/services/api/guides/domain"

	"github.com/go-chi/chi/v5"
)

// Register mounts guides endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// filter form submit
	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search)

	// reset view and the query it restores
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/reset", h.reset)

	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ svc domain.ServicePort }

// filter the guide catalog
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.svc.Search(r.Context(), in)
}

// page through the whole catalog
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	var in domain.ListInput
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &in.Page}, {"per_page", &in.PerPage}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.WithField(perr.Validationf("%s must be a whole number", p.name), p.name)
		}
		*p.dst = n
	}
	if err := bind.Validate(r, in); err != nil {
		return nil, err
	}
	return h.svc.List(r.Context(), in.Page, in.PerPage)
}

// the query the reset button restores
func (h *handlers) reset(_ *stdhttp.Request) (any, error) {
	return h.svc.ResetQuery(), nil
}

// one guide by id
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "id"))
}
