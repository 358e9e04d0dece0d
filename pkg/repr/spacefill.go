package repr

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/task"
)

// SpacefillFields is the parameter schema of the spacefill representation.
var SpacefillFields = schema.Fields{
	"sizeFactor": {Type: schema.Float(), Default: 1.0, Description: "scale applied to van der Waals radii"},
	"detail":     {Type: schema.Int(), Default: 1, Description: "sphere subdivision level, 0-3"},
}

type spacefillParams struct {
	SizeFactor float64 `mapstructure:"sizeFactor"`
	Detail     int     `mapstructure:"detail"`
}

// Spacefill renders every atom as a van der Waals sphere. Its data must be
// a *structure.Structure; each atom becomes one picking group.
type Spacefill struct {
	source *structure.Structure
	params spacefillParams
	mesh   *geometry.Mesh
}

// NewSpacefill returns an empty spacefill representation.
func NewSpacefill() *Spacefill { return &Spacefill{} }

func (s *Spacefill) Label() string { return "spacefill" }

// Source returns the structure the spheres were built from, nil before
// Create. Transform update handlers compare it against the current
// parent to detect a replaced source.
func (s *Spacefill) Source() *structure.Structure { return s.source }

func (s *Spacefill) Create(rt *task.Runtime, data any, params map[string]any) error {
	src, ok := data.(*structure.Structure)
	if !ok {
		return fmt.Errorf("spacefill: data is %T: %w", data, domain.ErrNotApplicable)
	}
	var p spacefillParams
	if err := decodeParams(SpacefillFields, params, &p); err != nil {
		return fmt.Errorf("spacefill: %w", err)
	}

	mesh, err := buildSpheres(rt, src, p)
	if err != nil {
		return err
	}
	s.source = src
	s.params = p
	s.mesh = mesh
	return nil
}

func (s *Spacefill) Update(rt *task.Runtime, params map[string]any) (bool, error) {
	var p spacefillParams
	if err := decodeParams(SpacefillFields, params, &p); err != nil {
		return false, fmt.Errorf("spacefill: %w", err)
	}
	if p == s.params {
		return false, nil
	}

	fresh, err := buildSpheres(rt, s.source, p)
	if err != nil {
		return false, err
	}
	changed := s.mesh.Update(
		fresh.Vertices.Value(),
		fresh.Normals.Value(),
		fresh.Indices.Value(),
		fresh.Groups.Value(),
	)
	s.params = p
	return changed, nil
}

func (s *Spacefill) RenderObjects() []RenderObject {
	if s.mesh == nil {
		return nil
	}
	return []RenderObject{{Kind: RenderMesh, Mesh: s.mesh}}
}

func (s *Spacefill) Destroy() {
	s.source = nil
	s.mesh = nil
}

func buildSpheres(rt *task.Runtime, src *structure.Structure, p spacefillParams) (*geometry.Mesh, error) {
	b := geometry.NewMeshBuilder(src.AtomCount() * 12)
	group := 0
	for i := range src.Model.Chains {
		for _, atom := range src.Model.Chains[i].Atoms {
			if group%64 == 0 {
				if err := rt.Checkpoint("building spheres"); err != nil {
					return nil, err
				}
			}
			b.SetGroup(group)
			b.AddSphere(atom.Position, structure.VdwRadius(atom.Element)*p.SizeFactor, p.Detail)
			group++
		}
	}
	return b.Build(), nil
}
