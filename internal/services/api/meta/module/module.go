// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"jmnedict/internal/core/freshness"
	"jmnedict/internal/modkit"
	"jmnedict/internal/modkit/httpkit"
	pstrings "jmnedict/internal/platform/strings"

	metahttp "jmnedict/internal/services/api/meta/http"
)

// ServiceName is reported by the health and version routes
const ServiceName = "jmnedict-api"

// Ports exposes the module start time to other modules
type Ports struct {
	StartedAt time.Time
}

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	handlers  metahttp.Deps
	startedAt time.Time
}

// New constructs a meta module. modules, when set, lists the names reported by
// /meta/service
func New(deps modkit.Deps, modules func() []string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	started := time.Now()
	hd := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   started,
		Artifacts:   deps.Artifacts,
		Freshness:   deps.Cfg.Prefix("CORE_FETCH_").MayDuration("FRESHNESS", freshness.DefaultThreshold),
		Modules:     modules,
	}
	// typed nils would read as configured
	if deps.PG != nil {
		hd.PG = deps.PG
	}
	if deps.CH != nil {
		hd.CH = deps.CH
	}
	return &Module{b: b, handlers: hd, startedAt: started}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.b, func(rr httpkit.Router) { metahttp.Register(rr, m.handlers) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return pstrings.MustString(m.b.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return pstrings.MustPrefix(m.b.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return Ports{StartedAt: m.startedAt} }
