// Package behavior bundles transformers, custom properties and themes
// into named units with a symmetric register/unregister lifecycle. A
// behavior installs its pieces into a plugin's registry set and removes
// exactly those pieces again, so toggling a behavior leaves the
// registries as it found them.
package behavior

import (
	"log/slog"

	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/registry"
)

// Context carries the process-scoped collaborators a behavior registers
// against. Each plugin instance owns one; behaviors never reach for
// package-level state.
type Context struct {
	Registry *registry.Set
	Fetcher  ports.Fetcher
	Logger   *slog.Logger
}

// Behavior is a named, categorized bundle with a three-phase lifecycle.
//
// Register installs the bundle's pieces; calling it again on a
// registered behavior is a no-op. Update applies new parameters and
// reports whether anything observable changed. Unregister removes what
// Register added, in reverse order; after it the registries compare
// equal to their pre-register state.
type Behavior interface {
	Name() string
	Category() string
	Register(ctx *Context) error
	Update(params map[string]any) (bool, error)
	Unregister() error
}
