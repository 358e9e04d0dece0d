package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Theme describes a coloring scheme a behavior contributes, e.g. coloring
// structures by symmetry cluster or by geometry quality. The framework
// tracks descriptors only; the actual color mapping lives in the host's
// renderer.
type Theme struct {
	// Name is the unique registry key, e.g. "assembly-symmetry-cluster".
	Name string
	// Category groups themes in pickers, e.g. "color".
	Category string
	// Description explains what the theme encodes.
	Description string
}

// Themes manages the registered theme descriptors.
type Themes struct {
	mu     sync.RWMutex
	themes map[string]Theme
}

// NewThemes creates a new empty theme registry.
func NewThemes() *Themes {
	return &Themes{
		themes: make(map[string]Theme),
	}
}

// Register adds a theme descriptor. Registering a name twice is an error.
func (r *Themes) Register(theme Theme) error {
	if theme.Name == "" {
		return fmt.Errorf("theme needs a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.themes[theme.Name]; exists {
		return fmt.Errorf("theme %q: %w", theme.Name, ErrAlreadyRegistered)
	}
	r.themes[theme.Name] = theme
	return nil
}

// Unregister removes a theme by name.
func (r *Themes) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.themes[name]; !exists {
		return fmt.Errorf("theme %q: not registered", name)
	}
	delete(r.themes, name)
	return nil
}

// Get looks up a theme by name.
func (r *Themes) Get(name string) (Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	theme, ok := r.themes[name]
	return theme, ok
}

// Names returns all registered names, sorted.
func (r *Themes) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
