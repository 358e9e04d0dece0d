package transforms

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/task"
)

var structureFromModelFields = schema.Fields{
	"label": {Type: schema.String(), Default: "", Description: "Structure label; defaults to the model label."},
}

type structureFromModelParams struct {
	Label string `mapstructure:"label"`
}

// StructureFromModel builds the transformer instancing a model into a
// structure. Label edits refresh in place; a replaced model recreates.
func StructureFromModel() *registry.Transformer {
	return &registry.Transformer{
		Name:        NameStructureFromModel,
		DisplayName: "Structure from Model",
		From:        []domain.Kind{domain.KindModel},
		To:          domain.KindStructure,
		Params:      structureFromModelFields,

		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			var p structureFromModelParams
			if err := schema.Decode(params, &p); err != nil {
				return nil, err
			}
			m, ok := src.Payload.(*structure.Model)
			if !ok {
				return nil, fmt.Errorf("structure-from-model: source is %T: %w", src.Payload, domain.ErrNotApplicable)
			}
			s := structure.FromModel(m, p.Label)
			obj := domain.NewObject(s, s.Label)
			obj.Description = fmt.Sprintf("%d atoms", s.AtomCount())
			return obj, nil
		},

		Update: func(rt *task.Runtime, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
			var p structureFromModelParams
			if err := schema.Decode(params, &p); err != nil {
				return domain.UpdateUnchanged, err
			}
			s, ok := current.Payload.(*structure.Structure)
			m, okm := src.Payload.(*structure.Model)
			if !ok || !okm || s.Model != m {
				return domain.UpdateRecreate, nil
			}
			label := p.Label
			if label == "" {
				label = m.Label
			}
			if s.Label == label && current.Label == label {
				return domain.UpdateUnchanged, nil
			}
			s.Label = label
			current.Label = label
			return domain.UpdateUpdated, nil
		},
	}
}

var conformationFields = schema.Fields{
	"matrix": {Type: schema.Mat4(), Description: "Column-major affine transform applied to every atom."},
}

type conformationParams struct {
	Matrix []float64 `mapstructure:"matrix"`
}

// TransformConformation builds the transformer mapping a structure's
// coordinates through an affine transform. Superposition workflows
// compute the matrix first and hand it in as the parameter.
func TransformConformation() *registry.Transformer {
	return &registry.Transformer{
		Name:        NameTransformConformation,
		DisplayName: "Transform Conformation",
		From:        []domain.Kind{domain.KindStructure},
		To:          domain.KindStructure,
		Params:      conformationFields,

		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			var p conformationParams
			if err := schema.Decode(params, &p); err != nil {
				return nil, err
			}
			s, ok := src.Payload.(*structure.Structure)
			if !ok {
				return nil, fmt.Errorf("transform-conformation: source is %T: %w", src.Payload, domain.ErrNotApplicable)
			}
			if err := rt.Checkpoint("transforming coordinates"); err != nil {
				return nil, err
			}
			var m geometry.Mat4
			copy(m[:], p.Matrix)
			out := s.Transformed(m)
			obj := domain.NewObject(out, out.Label)
			obj.Description = fmt.Sprintf("%d atoms, transformed", out.AtomCount())
			return obj, nil
		},
	}
}
