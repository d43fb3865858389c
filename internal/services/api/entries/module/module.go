// Package module wires entries into the API using modkit
package module

import (
	"jmnedict/internal/modkit"
	"jmnedict/internal/modkit/httpkit"
	pstrings "jmnedict/internal/platform/strings"
	entrieshttp "jmnedict/internal/services/api/entries/http"
	entriesrepo "jmnedict/internal/services/api/entries/repo"
	entriessvc "jmnedict/internal/services/api/entries/service"
	"jmnedict/pkg/jmnedict"
)

// Module implements the modkit.Module interface
type Module struct {
	deps  modkit.Deps
	b     modkit.Built
	svc   entriessvc.Service
	ports Ports
}

// New constructs an entries module reading deps.Artifacts. CORE_DECODE_BATCH_SIZE
// sets the entries decoded per fragment
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("entries"), modkit.WithPrefix("/entries")}, opts...)...)

	batch := deps.Cfg.Prefix("CORE_DECODE_").MayPositiveInt("BATCH_SIZE", jmnedict.DefaultBatchSize)
	src := entriesrepo.NewArtifacts(deps.Artifacts, jmnedict.WithBatchSize(batch))
	svc := entriessvc.New(src)

	return &Module{deps: deps, b: b, svc: svc, ports: Ports{Service: adaptEntriesPort{svc: svc}}}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.b, func(rr httpkit.Router) { entrieshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return pstrings.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return pstrings.MustPrefix(m.b.Prefix) }
