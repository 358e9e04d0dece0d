// Package symmetry attaches RCSB assembly symmetry descriptions to
// structures as a custom property. The compute fetches the assembly
// object from the RCSB data service and keeps the symmetry block:
// point-group symbol, chain clusters and rotation axes.
package symmetry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/property"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/task"
)

// DefaultBaseURL serves the public RCSB assembly objects.
const DefaultBaseURL = "https://data.rcsb.org/rest/v1/core/assembly"

// Descriptor identifies the property in registries and entity bags.
var Descriptor = property.Descriptor{
	Name:        "rcsb-assembly-symmetry",
	DisplayName: "Assembly Symmetry",
}

// ClusterTheme colors chains by their symmetry cluster. The assembly
// symmetry behavior registers it together with the provider.
var ClusterTheme = registry.Theme{
	Name:        "assembly-symmetry-cluster",
	Category:    "color",
	Description: "Colors chains by assembly symmetry cluster membership.",
}

// Axis is one rotation axis of the symmetry group, in model coordinates.
type Axis struct {
	// Order is the fold of the rotation, e.g. 2 for a two-fold axis.
	Order int           `json:"order"`
	Start geometry.Vec3 `json:"start"`
	End   geometry.Vec3 `json:"end"`
}

// Cluster lists the chains that map onto each other under the symmetry.
type Cluster struct {
	// Members holds auth chain ids.
	Members []string `json:"members"`
	AvgRMSD float64  `json:"avg_rmsd"`
}

// Symmetry is one symmetry description of an assembly. The service may
// report several per assembly (global, pseudo, local).
type Symmetry struct {
	Kind            string    `json:"kind"`
	Symbol          string    `json:"symbol"`
	Type            string    `json:"type"`
	OligomericState string    `json:"oligomeric_state"`
	Stoichiometry   []string  `json:"stoichiometry"`
	Clusters        []Cluster `json:"clusters"`
	RotationAxes    []Axis    `json:"rotation_axes"`
}

// Data is the symmetry block of one assembly.
type Data struct {
	Assembly   string
	Symmetries []Symmetry
}

// Best returns the first symmetry worth drawing. Identity groups ("C1")
// and entries without clusters carry nothing to visualize and are
// skipped; ok is false when every entry is like that.
func (d Data) Best() (Symmetry, bool) {
	for _, s := range d.Symmetries {
		if s.Symbol == "C1" || len(s.Clusters) == 0 {
			continue
		}
		return s, true
	}
	return Symmetry{}, false
}

// Provider computes assembly symmetry for structures.
type Provider = property.Provider[*structure.Structure, Data]

// Option adjusts how the provider queries the data service.
type Option func(*config)

type config struct {
	baseURL  string
	assembly string
}

// WithBaseURL points the provider at a different data service, e.g. a
// mirror or a test server.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithAssembly selects which assembly to query. The default is "1".
func WithAssembly(id string) Option {
	return func(c *config) { c.assembly = id }
}

// New builds the provider over the given fetcher.
func New(fetcher ports.Fetcher, opts ...Option) *Provider {
	cfg := config{baseURL: DefaultBaseURL, assembly: "1"}
	for _, opt := range opts {
		opt(&cfg)
	}

	return property.NewProvider(Descriptor, func(rt *task.Runtime, s *structure.Structure) (Data, error) {
		entry := strings.ToLower(s.Model.Entry)
		if entry == "" {
			return Data{}, fmt.Errorf("structure %q has no source entry", s.Label)
		}

		if err := rt.Checkpoint("fetching assembly symmetry"); err != nil {
			return Data{}, err
		}
		url := fmt.Sprintf("%s/%s/%s", cfg.baseURL, entry, cfg.assembly)
		body, err := fetcher.Fetch(rt.Context(), url)
		if err != nil {
			return Data{}, fmt.Errorf("fetch assembly symmetry: %w", err)
		}

		var env struct {
			Symmetry []Symmetry `json:"rcsb_struct_symmetry"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return Data{}, fmt.Errorf("decode assembly symmetry: %w", err)
		}
		return Data{Assembly: cfg.assembly, Symmetries: env.Symmetry}, nil
	})
}
