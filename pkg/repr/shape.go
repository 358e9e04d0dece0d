package repr

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/task"
)

// Shape is named geometry built outside the model and volume pipelines,
// e.g. symmetry axes. Either buffer may be nil.
type Shape struct {
	Name  string
	Mesh  *geometry.Mesh
	Lines *geometry.Lines
}

// ShapeRepresentation passes a prebuilt Shape through as render objects.
// Its data must be a *Shape; it carries no parameters of its own.
type ShapeRepresentation struct {
	shape *Shape
}

// NewShapeRepresentation returns an empty shape representation.
func NewShapeRepresentation() *ShapeRepresentation { return &ShapeRepresentation{} }

func (s *ShapeRepresentation) Label() string {
	if s.shape != nil && s.shape.Name != "" {
		return s.shape.Name
	}
	return "shape"
}

func (s *ShapeRepresentation) Create(rt *task.Runtime, data any, params map[string]any) error {
	shape, ok := data.(*Shape)
	if !ok {
		return fmt.Errorf("shape: data is %T: %w", data, domain.ErrNotApplicable)
	}
	s.shape = shape
	return nil
}

func (s *ShapeRepresentation) Update(rt *task.Runtime, params map[string]any) (bool, error) {
	return false, nil
}

func (s *ShapeRepresentation) RenderObjects() []RenderObject {
	if s.shape == nil {
		return nil
	}
	var out []RenderObject
	if s.shape.Mesh != nil {
		out = append(out, RenderObject{Kind: RenderMesh, Mesh: s.shape.Mesh})
	}
	if s.shape.Lines != nil {
		out = append(out, RenderObject{Kind: RenderLines, Lines: s.shape.Lines})
	}
	return out
}

func (s *ShapeRepresentation) Destroy() {
	s.shape = nil
}
