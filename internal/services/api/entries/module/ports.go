package module

import (
	"context"

	entriesdom "jmnedict/internal/services/api/entries/domain"
	entriessvc "jmnedict/internal/services/api/entries/service"
	"jmnedict/pkg/jmnedict"
)

// Ports defines the entries module ports
type Ports struct {
	Service entriesdom.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptEntriesPort adapts the entries service to the domain port interface
type adaptEntriesPort struct{ svc entriessvc.Service }

// List implements the domain ServicePort interface
func (a adaptEntriesPort) List(ctx context.Context, in entriesdom.ListInput) (entriesdom.ListResult, error) {
	return a.svc.List(ctx, in)
}

// Get implements the domain ServicePort interface
func (a adaptEntriesPort) Get(ctx context.Context, seq int) (jmnedict.Entry, error) {
	return a.svc.Get(ctx, seq)
}
