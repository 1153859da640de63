// Package modkit is how API modules are assembled: shared deps in, a Module out,
// with cross module ports handed over as plain interfaces
package modkit

import (
	"net/http"
	"strings"

	"tomotrip/internal/modkit/httpkit"
)

// Module is what api.Mount needs from a feature module
type Module interface {
	MountRoutes(r httpkit.Router)
	// Ports is the module's exported port set, nil when it exports none
	Ports() any
	Name() string
}

// Options is the resolved wiring of one module
type Options struct {
	Name        string
	Prefix      string
	Middlewares []func(http.Handler) http.Handler
	// Ports are ports imported from other modules; the importing module owns the type
	Ports any
	// Register attaches extra routes after the module's own
	Register func(httpkit.Router)
}

// Option mutates Options
type Option func(*Options)

func WithName(name string) Option     { return func(o *Options) { o.Name = name } }
func WithPrefix(prefix string) Option { return func(o *Options) { o.Prefix = prefix } }

// WithMiddlewares appends per module middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(o *Options) { o.Middlewares = append(o.Middlewares, mw...) }
}

// WithPorts hands a module the ports it imports from its siblings
func WithPorts[T any](p T) Option { return func(o *Options) { o.Ports = p } }

// WithRegister mounts extra routes inside the module's prefix
func WithRegister(fn func(httpkit.Router)) Option {
	return func(o *Options) { o.Register = fn }
}

// Build applies defaults then opts. Prefixes are normalized to a single leading slash.
func Build(defaults []Option, opts ...Option) Options {
	var o Options
	for _, fn := range append(defaults, opts...) {
		fn(&o)
	}
	o.Middlewares = append([]func(http.Handler) http.Handler(nil), o.Middlewares...)
	if o.Prefix != "" {
		o.Prefix = "/" + strings.Trim(o.Prefix, "/")
	}
	return o
}

// Base implements the routing half of Module; modules embed it and add Ports
type Base struct {
	opts  Options
	mount func(httpkit.Router)
}

// NewBase panics on a module without a name or prefix, both are wiring bugs
func NewBase(opts Options, mount func(httpkit.Router)) Base {
	if opts.Name == "" || opts.Prefix == "" {
		panic("modkit: module needs a name and a prefix")
	}
	return Base{opts: opts, mount: mount}
}

func (b Base) Name() string                                    { return b.opts.Name }
func (b Base) Prefix() string                                  { return b.opts.Prefix }
func (b Base) Middlewares() []func(http.Handler) http.Handler { return b.opts.Middlewares }

// MountRoutes opens the module's prefix, applies its middleware and registers its routes
func (b Base) MountRoutes(r httpkit.Router) {
	r.Route(b.opts.Prefix, func(sub httpkit.Router) {
		if len(b.opts.Middlewares) > 0 {
			sub.Use(b.opts.Middlewares...)
		}
		if b.mount != nil {
			b.mount(sub)
		}
		if b.opts.Register != nil {
			b.opts.Register(sub)
		}
	})
}
