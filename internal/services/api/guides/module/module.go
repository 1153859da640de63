// Package module wires guides into the API using modkit
package module

import (
	modkit "tomotrip/internal/modkit"
	"tomotrip/internal/modkit/httpkit"
	guideshttp "tomotrip/internal/services/api/guides/http"
	guidessvc "tomotrip/internal/services/api/guides/service"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs a guides module around a service whose lifecycle the caller owns
func New(deps modkit.Deps, svc guidessvc.Service, opts ...modkit.Option) *Module {
	if svc == nil {
		panic("guides.Module requires a non nil Service")
	}
	o := modkit.Build([]modkit.Option{modkit.WithName("guides"), modkit.WithPrefix("/guides")}, opts...)

	port := adaptGuidesPort{svc: svc}
	log := deps.Named(o.Name)
	m := &Module{ports: Ports{Guides: port, Catalog: port}}
	m.Base = modkit.NewBase(o, func(r httpkit.Router) {
		guideshttp.Register(r, port)
		log.Debug().Str("prefix", o.Prefix).Msg("routes mounted")
	})
	return m
}
