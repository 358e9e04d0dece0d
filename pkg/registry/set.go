package registry

import "slices"

// Set bundles the process-scoped registries a plugin instance owns. Each
// plugin gets its own set; there are no package-level singletons, so two
// plugins in one process never see each other's registrations.
type Set struct {
	Transformers *Transformers
	Providers    *Providers
	Themes       *Themes
}

// NewSet creates an empty registry set.
func NewSet() *Set {
	return &Set{
		Transformers: NewTransformers(),
		Providers:    NewProviders(),
		Themes:       NewThemes(),
	}
}

// SetSnapshot is a point-in-time listing of every registered name. Tests
// compare snapshots around behavior register/unregister pairs to prove the
// pair is symmetric.
type SetSnapshot struct {
	Transformers []string
	Providers    []string
	Themes       []string
}

// Snapshot captures the current registration names, sorted.
func (s *Set) Snapshot() SetSnapshot {
	return SetSnapshot{
		Transformers: s.Transformers.Names(),
		Providers:    s.Providers.Names(),
		Themes:       s.Themes.Names(),
	}
}

// Equal reports whether two snapshots list identical names.
func (s SetSnapshot) Equal(o SetSnapshot) bool {
	return slices.Equal(s.Transformers, o.Transformers) &&
		slices.Equal(s.Providers, o.Providers) &&
		slices.Equal(s.Themes, o.Themes)
}
