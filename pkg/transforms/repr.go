package transforms

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/repr"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/task"
	"github.com/qqdb/molstar/pkg/volume"
)

// SpacefillRepr builds the transformer rendering a structure as one
// sphere per atom. Param edits refresh the mesh buffers in place.
func SpacefillRepr() *registry.Transformer {
	return &registry.Transformer{
		Name:        NameSpacefillRepr,
		DisplayName: "Spacefill",
		From:        []domain.Kind{domain.KindStructure},
		To:          domain.KindShape,
		Params:      repr.SpacefillFields,

		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			s, ok := src.Payload.(*structure.Structure)
			if !ok {
				return nil, fmt.Errorf("spacefill-repr: source is %T: %w", src.Payload, domain.ErrNotApplicable)
			}
			sf := repr.NewSpacefill()
			if err := sf.Create(rt, s, params); err != nil {
				return nil, err
			}
			obj := domain.NewObject(repr.NewRendered(sf), sf.Label())
			obj.Description = fmt.Sprintf("%d atoms", s.AtomCount())
			return obj, nil
		},

		Update: func(rt *task.Runtime, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
			rendered, ok := current.Payload.(*repr.Rendered)
			if !ok {
				return domain.UpdateRecreate, nil
			}
			sf, ok := rendered.Representation.(*repr.Spacefill)
			if !ok || sf.Source() != src.Payload {
				return domain.UpdateRecreate, nil
			}
			changed, err := rendered.Update(rt, params)
			if err != nil {
				return domain.UpdateUnchanged, err
			}
			if !changed {
				return domain.UpdateUnchanged, nil
			}
			return domain.UpdateUpdated, nil
		},
	}
}

// DirectVolumeRepr builds the transformer uploading a volume as a 3D
// texture through the render backend. A nil backend makes every apply
// fail with ErrNoRenderBackend, which aborts and rolls back the batch.
func DirectVolumeRepr(backend ports.RenderBackend) *registry.Transformer {
	return &registry.Transformer{
		Name:        NameDirectVolumeRepr,
		DisplayName: "Direct Volume",
		From:        []domain.Kind{domain.KindVolume},
		To:          domain.KindShape,
		Params:      repr.DirectVolumeFields,

		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			vol, ok := src.Payload.(*volume.Volume)
			if !ok {
				return nil, fmt.Errorf("direct-volume-repr: source is %T: %w", src.Payload, domain.ErrNotApplicable)
			}
			dv := repr.NewDirectVolume(backend)
			if err := dv.Create(rt, vol, params); err != nil {
				return nil, err
			}
			obj := domain.NewObject(repr.NewRendered(dv), dv.Label())
			obj.Description = volumeDescription(vol)
			return obj, nil
		},

		Update: func(rt *task.Runtime, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
			rendered, ok := current.Payload.(*repr.Rendered)
			if !ok {
				return domain.UpdateRecreate, nil
			}
			dv, ok := rendered.Representation.(*repr.DirectVolume)
			if !ok || dv.Source() != src.Payload {
				return domain.UpdateRecreate, nil
			}
			changed, err := rendered.Update(rt, params)
			if err != nil {
				return domain.UpdateUnchanged, err
			}
			if !changed {
				return domain.UpdateUnchanged, nil
			}
			return domain.UpdateUpdated, nil
		},
	}
}
