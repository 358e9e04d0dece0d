package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/qqdb/molstar/pkg/domain"
)

// ErrAlreadyRegistered is returned when a name is registered twice.
// Behaviors rely on it to detect asymmetric register/unregister pairs.
var ErrAlreadyRegistered = errors.New("already registered")

// Transformers manages the available transformer definitions.
type Transformers struct {
	mu   sync.RWMutex
	defs map[string]*Transformer
}

// NewTransformers creates a new empty transformer registry.
func NewTransformers() *Transformers {
	return &Transformers{
		defs: make(map[string]*Transformer),
	}
}

// Register adds a transformer to the registry. Registering a name twice is
// an error; unregister the old definition first.
func (r *Transformers) Register(def *Transformer) error {
	if err := def.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("transformer %q: %w", def.Name, ErrAlreadyRegistered)
	}
	r.defs[def.Name] = def
	return nil
}

// Unregister removes a transformer by name.
func (r *Transformers) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[name]; !exists {
		return fmt.Errorf("transformer %q: %w", name, domain.ErrUnknownTransformer)
	}
	delete(r.defs, name)
	return nil
}

// Get looks up a transformer by name.
func (r *Transformers) Get(name string) (*Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("transformer %q: %w", name, domain.ErrUnknownTransformer)
	}
	return def, nil
}

// Names returns all registered names, sorted.
func (r *Transformers) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the definitions sorted by name, for adapters that describe
// the available transformers to clients.
func (r *Transformers) All() []*Transformer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]*Transformer, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
