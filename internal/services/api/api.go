// Package api provides the HTTP API for the application
package api

import (
	"tomotrip/internal/platform/config"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/metrics"
	phttp "tomotrip/internal/platform/net/http"
	"tomotrip/internal/platform/store"

	"tomotrip/internal/modkit"
	"tomotrip/internal/modkit/httpkit"
	"tomotrip/internal/modkit/swaggerkit"

	guidesmod "tomotrip/internal/services/api/guides/module"
	guidessvc "tomotrip/internal/services/api/guides/service"
	metamod "tomotrip/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Guides         guidessvc.Service
	Stack          httpkit.StackOptions
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.NewDeps(opt.Config, opt.Store)

	// guides owns the catalog port that meta reports on
	guides := guidesmod.New(deps, opt.Guides)
	catalog := modkit.MustPortsOf[guidesmod.CatalogPort](guides)

	mods := []modkit.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Catalog: catalog})),
		guides,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
		if opt.EnableMetrics {
			r.Handle("/metrics", metrics.Handler())
		}

		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	if opt.Logger != nil {
		opt.Logger.Info().Int("modules", len(mods)).Bool("metrics", opt.EnableMetrics).Msg("api mounted")
	}
}
