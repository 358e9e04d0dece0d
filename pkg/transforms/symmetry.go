package transforms

import (
	"fmt"
	"log/slog"

	"github.com/qqdb/molstar/internal/logging"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/property"
	"github.com/qqdb/molstar/pkg/property/symmetry"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/repr"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/task"
)

var symmetryAxesFields = schema.Fields{
	"radius": {Type: schema.Float(), Default: 0.5, Description: "Axis cylinder radius in Angstrom."},
}

type symmetryAxesParams struct {
	Radius float64 `mapstructure:"radius"`
}

// AssemblySymmetryAxes builds the transformer drawing the rotation axes
// of a structure's assembly symmetry. It attaches the symmetry property
// first; a failed attach or an assembly without usable symmetry degrades
// to a null cell instead of failing the batch.
func AssemblySymmetryAxes(provider *symmetry.Provider, log *slog.Logger) *registry.Transformer {
	if log == nil {
		log = logging.NewNop()
	}
	return &registry.Transformer{
		Name:        NameAssemblySymmetryAxes,
		DisplayName: "Assembly Symmetry Axes",
		From:        []domain.Kind{domain.KindStructure},
		To:          domain.KindShape,
		Params:      symmetryAxesFields,

		// The property needs a source entry to query the data service.
		IsApplicable: func(src *domain.Object) bool {
			s, ok := src.Payload.(*structure.Structure)
			return ok && s.Model != nil && s.Model.Entry != ""
		},

		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			var p symmetryAxesParams
			if err := schema.Decode(params, &p); err != nil {
				return nil, err
			}
			s, ok := src.Payload.(*structure.Structure)
			if !ok {
				return nil, fmt.Errorf("assembly-symmetry-axes: source is %T: %w", src.Payload, domain.ErrNotApplicable)
			}

			v, err := provider.Attach(rt, s)
			if err != nil {
				return nil, err
			}
			if v.State == property.Failed {
				log.WarnContext(rt.Context(), "assembly symmetry unavailable",
					"entry", s.Model.Entry, "err", v.Err)
				return domain.Null("assembly symmetry"), nil
			}
			best, ok := v.Data.Best()
			if !ok || len(best.RotationAxes) == 0 {
				return domain.Null("no assembly symmetry"), nil
			}

			if err := rt.Checkpoint("building symmetry axes"); err != nil {
				return nil, err
			}
			b := geometry.NewMeshBuilder(64 * len(best.RotationAxes))
			for i, axis := range best.RotationAxes {
				b.SetGroup(i)
				b.AddCylinder(axis.Start, axis.End, p.Radius, 16)
			}
			shape := &repr.Shape{Name: best.Symbol + " axes", Mesh: b.Build()}
			sr := repr.NewShapeRepresentation()
			if err := sr.Create(rt, shape, nil); err != nil {
				return nil, err
			}
			obj := domain.NewObject(repr.NewRendered(sr), shape.Name)
			obj.Description = fmt.Sprintf("%s, %d axes", best.OligomericState, len(best.RotationAxes))
			return obj, nil
		},
	}
}
