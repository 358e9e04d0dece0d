package transforms

import (
	"bytes"
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/formats/ccp4"
	"github.com/qqdb/molstar/pkg/formats/xyz"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/task"
	"github.com/qqdb/molstar/pkg/volume"
)

var parseXYZFields = schema.Fields{
	"entry": {Type: schema.String(), Default: "", Description: "Source entry id stamped on the model, e.g. a PDB id."},
}

type parseXYZParams struct {
	Entry string `mapstructure:"entry"`
}

// ParseXYZ builds the transformer turning raw XYZ bytes into an atomic
// model. It accepts raw data whose format hint is "xyz" or empty.
func ParseXYZ() *registry.Transformer {
	return &registry.Transformer{
		Name:        NameParseXYZ,
		DisplayName: "Parse XYZ",
		From:        []domain.Kind{domain.KindData},
		To:          domain.KindModel,
		Params:      parseXYZFields,

		IsApplicable: func(src *domain.Object) bool {
			raw, ok := src.Payload.(domain.RawData)
			return ok && (raw.Format == "" || raw.Format == "xyz")
		},

		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			var p parseXYZParams
			if err := schema.Decode(params, &p); err != nil {
				return nil, err
			}
			raw, ok := src.Payload.(domain.RawData)
			if !ok {
				return nil, fmt.Errorf("parse-xyz: source is %T: %w", src.Payload, domain.ErrNotApplicable)
			}
			if err := rt.Checkpoint("parsing xyz"); err != nil {
				return nil, err
			}
			m, err := xyz.Parse(bytes.NewReader(raw.Bytes))
			if err != nil {
				return nil, err
			}
			if m.Label == "" {
				m.Label = src.Label
			}
			if p.Entry != "" {
				m.Entry = p.Entry
			}
			obj := domain.NewObject(m, m.Label)
			obj.Description = fmt.Sprintf("%d atoms", m.AtomCount())
			return obj, nil
		},
	}
}

var volumeFromCCP4Fields = schema.Fields{
	"label": {Type: schema.String(), Default: "", Description: "Tree label; defaults to the source label."},
}

type volumeFromCCP4Params struct {
	Label string `mapstructure:"label"`
}

// VolumeFromCCP4 builds the transformer decoding a CCP4/MRC map into the
// canonical volume model.
func VolumeFromCCP4() *registry.Transformer {
	return &registry.Transformer{
		Name:        NameVolumeFromCCP4,
		DisplayName: "Volume from CCP4",
		From:        []domain.Kind{domain.KindData},
		To:          domain.KindVolume,
		Params:      volumeFromCCP4Fields,

		IsApplicable: func(src *domain.Object) bool {
			raw, ok := src.Payload.(domain.RawData)
			return ok && (raw.Format == "ccp4" || raw.Format == "mrc")
		},

		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			var p volumeFromCCP4Params
			if err := schema.Decode(params, &p); err != nil {
				return nil, err
			}
			raw, ok := src.Payload.(domain.RawData)
			if !ok {
				return nil, fmt.Errorf("volume-from-ccp4: source is %T: %w", src.Payload, domain.ErrNotApplicable)
			}
			if err := rt.Checkpoint("decoding ccp4 header"); err != nil {
				return nil, err
			}
			f, err := ccp4.Parse(bytes.NewReader(raw.Bytes))
			if err != nil {
				return nil, err
			}
			vol, err := f.ToVolume(rt)
			if err != nil {
				return nil, err
			}
			label := p.Label
			if label == "" {
				label = src.Label
			}
			obj := domain.NewObject(vol, label)
			obj.Description = volumeDescription(vol)
			return obj, nil
		},
	}
}

func volumeDescription(v *volume.Volume) string {
	return fmt.Sprintf("%dx%dx%d, %s",
		v.Extent[0], v.Extent[1], v.Extent[2], v.Cell.Name)
}
