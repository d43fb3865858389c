// Package module provides the fetch module implementation
package module

import (
	"jmnedict/internal/modkit"
	"jmnedict/internal/services/fetch/domain"
	"jmnedict/internal/services/fetch/ingest"
	"jmnedict/internal/services/fetch/service"
)

// Ports defines the fetch module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the fetch module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the fetch module from config under CORE_FETCH_*.
// It does not mount any routes
func New(deps modkit.Deps) *Module {
	return NewWithOptions(deps, FromConfig(deps.Cfg))
}

// NewWithOptions wires the module from explicit options; commands use it to apply flags
func NewWithOptions(deps modkit.Deps, opts Options) *Module {
	svc := service.New(ingest.NewSource(opts.HTTPTimeout), service.Config{
		URL:        opts.URL,
		OutDir:     opts.OutDir,
		Codec:      opts.Codec,
		Freshness:  opts.Freshness,
		RunTimeout: opts.RunTimeout,
	})
	return &Module{deps: deps, opts: opts, ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "fetch" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }
