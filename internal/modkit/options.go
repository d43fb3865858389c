package modkit

import (
	"net/http"

	"jmnedict/internal/modkit/httpkit"
)

// Option mutates build configuration for a module
type Option func(*buildCfg)

type buildCfg struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)
}

// Built is the resolved configuration a module constructor works from
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Register attaches extra endpoints after the module's own
	Register func(httpkit.Router)
}

// WithName sets the module name used in logs and the registry
func WithName(name string) Option { return func(c *buildCfg) { c.name = name } }

// WithPrefix mounts the module under a path prefix
func WithPrefix(prefix string) Option { return func(c *buildCfg) { c.prefix = prefix } }

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts injects ports owned by another module
func WithPorts[T any](p T) Option { return func(c *buildCfg) { c.ports = p } }

// WithRegister adds endpoints to the module router
func WithRegister(fn func(httpkit.Router)) Option { return func(c *buildCfg) { c.register = fn } }

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount is the MountRoutes body every module shares: a sub router at prefix with
// the module middleware, then own routes, then any extra registration
func Mount(r httpkit.Router, b Built, own func(httpkit.Router)) {
	r.Route(b.Prefix, func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		own(rr)
		if b.Register != nil {
			b.Register(rr)
		}
	})
}
