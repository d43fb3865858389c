// Package module provides the load module implementation
package module

import (
	"os"

	"jmnedict/internal/modkit"
	"jmnedict/internal/services/load/domain"
	"jmnedict/internal/services/load/repo"
	"jmnedict/internal/services/load/service"
)

// Ports defines the load module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the load module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the load module from config. It does not mount any routes
func New(deps modkit.Deps) *Module {
	return NewWithOptions(deps, FromConfig(deps.Cfg))
}

// NewWithOptions wires the sink named by opts.Target; the matching store in deps
// must be open
func NewWithOptions(deps modkit.Deps, opts Options) *Module {
	var sink domain.Sink
	switch opts.Target {
	case domain.TargetCH:
		sink = repo.NewCHSink(deps.CH)
	default:
		sink = repo.NewPGSink(deps.PG, repo.NewPG())
	}

	artifacts := deps.Artifacts
	if artifacts == nil {
		artifacts = os.DirFS(opts.ArtifactDir)
	}
	svc := service.New(sink, artifacts, service.Config{
		DecodeBatch: opts.DecodeBatch,
		WriteBatch:  opts.WriteBatch,
		RunTimeout:  opts.RunTimeout,
	})
	return &Module{deps: deps, opts: opts, ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "load" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }
