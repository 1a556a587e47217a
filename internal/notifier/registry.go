package notifier

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dkoval/chronos/internal/backtest"
	"github.com/dkoval/chronos/internal/core"
)

// Registry fans backtest reports out to the configured notifiers.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Notifier
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Notifier)}
}

// Register adds a notifier. Duplicate names are rejected so a
// misconfigured channel cannot silently shadow another.
func (r *Registry) Register(n Notifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := n.Name()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("notifier %s already registered", name)
	}
	r.entries[name] = n
	return nil
}

// Names returns the registered notifier names in sorted order.
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

// BroadcastReport sends the result to every registered notifier.
// Failures are collected per notifier, never short-circuited, so one
// broken channel does not starve the rest.
func (r *Registry) BroadcastReport(ctx context.Context, result *backtest.Result) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	errs := make(map[string]error)
	for name, n := range r.entries {
		if err := n.SendReport(ctx, result); err != nil {
			errs[name] = core.WrapError(core.ErrNotifierFailed, err)
		}
	}
	return errs
}
