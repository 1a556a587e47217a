package collector

import (
	"sort"
	"sync"
)

// Registry holds the data collectors available to the engine, keyed by
// collector name. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Collector
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Collector)}
}

// Register adds a collector, replacing any previous collector with the
// same name.
func (r *Registry) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[c.Name()] = c
}

// Get looks up a collector by name.
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[name]
	return c, ok
}

// Names returns the registered collector names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
