package embedding

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/kailas-cloud/osvector/internal/domain"
)

var errNoEmbedders = errors.New("no embedders registered")

// Registry resolves embedding handle names to embedders.
type Registry struct {
	mu        sync.RWMutex
	embedders map[string]domain.Embedder
	fallback  string
}

// NewRegistry creates an empty registry. fallback names the embedder used
// when a lookup is made with an empty name.
func NewRegistry(fallback string) *Registry {
	return &Registry{embedders: make(map[string]domain.Embedder), fallback: fallback}
}

// Register adds or replaces the embedder under name.
func (r *Registry) Register(name string, e domain.Embedder) {
	r.mu.Lock()
	r.embedders[name] = e
	r.mu.Unlock()
}

// Get returns the embedder for name, or the fallback when name is empty.
func (r *Registry) Get(name string) (domain.Embedder, error) {
	if name == "" {
		name = r.fallback
	}

	r.mu.RLock()
	e, ok := r.embedders[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownEmbedding)
	}
	return e, nil
}

// Names returns the registered handle names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.embedders))
	for n := range r.embedders {
		names = append(names, n)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// HealthCheck checks every registered embedder that supports it and returns
// the first failure.
func (r *Registry) HealthCheck(ctx context.Context) error {
	names := r.Names()
	if len(names) == 0 {
		return errNoEmbedders
	}
	for _, n := range names {
		e, err := r.Get(n)
		if err != nil {
			return err
		}
		hc, ok := e.(domain.HealthChecker)
		if !ok {
			continue
		}
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedder %s: %w", n, err)
		}
	}
	return nil
}
