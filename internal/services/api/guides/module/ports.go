package module

import (
	"context"

	guidesdom "tomotrip/internal/services/api/guides/domain"
	guidessvc "tomotrip/internal/services/api/guides/service"
)

// CatalogPort reports what catalog snapshot is being served
type CatalogPort interface {
	Catalog() guidesdom.CatalogInfo
}

// Ports is the port set guides exposes to other modules
type Ports struct {
	Guides  guidesdom.ServicePort
	Catalog CatalogPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptGuidesPort adapts the guides service to the domain port interface
type adaptGuidesPort struct{ svc guidessvc.Service }

// Search implements the domain ServicePort interface
func (a adaptGuidesPort) Search(ctx context.Context, in guidesdom.SearchInput) (guidesdom.SearchResult, error) {
	return a.svc.Search(ctx, in)
}

// List implements the domain ServicePort interface
func (a adaptGuidesPort) List(ctx context.Context, page, perPage int) (guidesdom.SearchResult, error) {
	return a.svc.List(ctx, page, perPage)
}

// Get implements the domain ServicePort interface
func (a adaptGuidesPort) Get(ctx context.Context, id string) (guidesdom.Guide, error) {
	return a.svc.Get(ctx, id)
}

// ResetQuery implements the domain ServicePort interface
func (a adaptGuidesPort) ResetQuery() guidesdom.Query { return a.svc.ResetQuery() }

// Catalog implements CatalogPort
func (a adaptGuidesPort) Catalog() guidesdom.CatalogInfo { return a.svc.Catalog() }
