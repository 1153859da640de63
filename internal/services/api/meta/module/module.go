// Package module wires meta endpoints into the API
package module

import (
	"time"

	modkit "tomotrip/internal/modkit"
	"tomotrip/internal/modkit/httpkit"
	guidesdom "tomotrip/internal/services/api/guides/domain"
	metahttp "tomotrip/internal/services/api/meta/http"
)

// ServiceName is reported by health, service and version
const ServiceName = "tomotrip-api"

// CatalogPort is what meta needs from the guides module
type CatalogPort interface {
	Catalog() guidesdom.CatalogInfo
}

// Ports are the cross module ports meta consumes
type Ports struct {
	Catalog CatalogPort
}

// Module implements the modkit.Module interface; meta exports no ports
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs a meta module.
// Pass modkit.WithPorts(Ports{...}) to report on the guide catalog.
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)

	d := metahttp.Deps{ServiceName: ServiceName, StartedAt: time.Now()}
	if p, ok := o.Ports.(Ports); ok && p.Catalog != nil {
		d.Catalog = p.Catalog
	}
	// a nil *store.Store inside the interface would pass the nil check in the handlers
	if deps.Store != nil {
		d.Store = deps.Store
	}

	m := &Module{startedAt: d.StartedAt}
	m.Base = modkit.NewBase(o, func(r httpkit.Router) { metahttp.Register(r, d) })
	return m
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
