package modkit

import (
	"tomotrip/internal/platform/config"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/store"
)

// Deps are the process wide handles every module may use
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	// Store may be nil in tests; its seams are nil for disabled backends
	Store *store.Store
}

// NewDeps wires the root logger with a module independent config view
func NewDeps(cfg config.Conf, st *store.Store) Deps {
	return Deps{Log: *logger.Get(), Cfg: cfg, Store: st}
}

// Named is the logger a module should use, tagged with its name
func (d Deps) Named(module string) logger.Logger {
	return d.Log.With().Str("module", module).Logger()
}
