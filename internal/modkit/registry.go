package modkit

import (
	"fmt"
	"sync"

	pstrings "jmnedict/internal/platform/strings"
)

// Registry holds the mounted modules by name, in mount order
type Registry struct {
	mu    sync.RWMutex
	order []string
	mods  map[string]Module
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry { return &Registry{mods: map[string]Module{}} }

// Add registers m. Names and prefixes must be present and names unique
func (g *Registry) Add(m Module) {
	name := pstrings.MustString(m.Name(), "module name")
	pstrings.MustPrefix(m.Prefix())
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.mods[name]; dup {
		panic(fmt.Sprintf("modkit: module %q registered twice", name))
	}
	g.mods[name] = m
	g.order = append(g.order, name)
}

// Names lists registered modules in mount order
func (g *Registry) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.order...)
}

// Each calls fn for every module in mount order
func (g *Registry) Each(fn func(Module)) {
	g.mu.RLock()
	mods := make([]Module, 0, len(g.order))
	for _, n := range g.order {
		mods = append(mods, g.mods[n])
	}
	g.mu.RUnlock()
	for _, m := range mods {
		fn(m)
	}
}

// PortsAs returns the port set of module name asserted to T
func PortsAs[T any](g *Registry, name string) (T, bool) {
	g.mu.RLock()
	m, ok := g.mods[name]
	g.mu.RUnlock()
	var zero T
	if !ok {
		return zero, false
	}
	out, ok := m.Ports().(T)
	return out, ok
}

// MustPortsAs is PortsAs that panics naming the module
func MustPortsAs[T any](g *Registry, name string) T {
	if v, ok := PortsAs[T](g, name); ok {
		return v
	}
	panic("modkit: requested port not found on module " + name)
}
