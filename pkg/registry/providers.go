package registry

import (
	"fmt"
	"sort"
	"sync"
)

// PropertyProvider is the registry-facing surface of a custom property
// provider. The concrete providers are generic over their entity type; the
// registry only needs their names for lookup and symmetry bookkeeping.
type PropertyProvider interface {
	PropertyName() string
}

// Providers manages the registered custom property providers.
type Providers struct {
	mu        sync.RWMutex
	providers map[string]PropertyProvider
}

// NewProviders creates a new empty provider registry.
func NewProviders() *Providers {
	return &Providers{
		providers: make(map[string]PropertyProvider),
	}
}

// Register adds a provider. Registering a name twice is an error.
func (r *Providers) Register(p PropertyProvider) error {
	name := p.PropertyName()
	if name == "" {
		return fmt.Errorf("provider needs a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %q: %w", name, ErrAlreadyRegistered)
	}
	r.providers[name] = p
	return nil
}

// Unregister removes a provider by name.
func (r *Providers) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("provider %q: not registered", name)
	}
	delete(r.providers, name)
	return nil
}

// Get looks up a provider by name. Callers assert back to the concrete
// generic provider type they registered.
func (r *Providers) Get(name string) (PropertyProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns all registered names, sorted.
func (r *Providers) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
