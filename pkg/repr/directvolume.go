package repr

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/task"
	"github.com/qqdb/molstar/pkg/volume"
)

// DirectVolumeFields is the parameter schema of the direct-volume
// representation.
var DirectVolumeFields = schema.Fields{
	"filter": {Type: schema.Enum("linear", "nearest"), Default: "linear", Description: "texture sampling filter"},
}

type directVolumeParams struct {
	Filter string `mapstructure:"filter"`
}

// DirectVolume uploads density samples as a 3D texture for ray-marched
// rendering. Its data must be a *volume.Volume. Device resources come
// from the render backend; without one, Create fails with
// domain.ErrNoRenderBackend.
type DirectVolume struct {
	backend ports.RenderBackend

	source  *volume.Volume
	params  directVolumeParams
	texture ports.Texture
}

// NewDirectVolume returns a direct-volume representation drawing device
// resources from backend. A nil backend is allowed and fails at Create.
func NewDirectVolume(backend ports.RenderBackend) *DirectVolume {
	return &DirectVolume{backend: backend}
}

func (d *DirectVolume) Label() string { return "direct-volume" }

// Source returns the volume behind the texture, nil before Create.
func (d *DirectVolume) Source() *volume.Volume { return d.source }

func (d *DirectVolume) Create(rt *task.Runtime, data any, params map[string]any) error {
	vol, ok := data.(*volume.Volume)
	if !ok {
		return fmt.Errorf("direct-volume: data is %T: %w", data, domain.ErrNotApplicable)
	}
	var p directVolumeParams
	if err := decodeParams(DirectVolumeFields, params, &p); err != nil {
		return fmt.Errorf("direct-volume: %w", err)
	}

	tex, err := d.upload(rt, vol, p)
	if err != nil {
		return err
	}
	d.source = vol
	d.params = p
	d.texture = tex
	return nil
}

func (d *DirectVolume) Update(rt *task.Runtime, params map[string]any) (bool, error) {
	var p directVolumeParams
	if err := decodeParams(DirectVolumeFields, params, &p); err != nil {
		return false, fmt.Errorf("direct-volume: %w", err)
	}
	if p == d.params {
		return false, nil
	}

	// The filter is fixed at allocation, so a change means a new texture.
	tex, err := d.upload(rt, d.source, p)
	if err != nil {
		return false, err
	}
	if d.texture != nil {
		d.texture.Dispose()
	}
	d.texture = tex
	d.params = p
	return true, nil
}

func (d *DirectVolume) RenderObjects() []RenderObject {
	if d.texture == nil {
		return nil
	}
	return []RenderObject{{
		Kind: RenderDirectVolume,
		Volume: &VolumeChannel{
			Texture:    d.texture,
			Extent:     d.source.Extent,
			Dimensions: d.source.CartesianDimensions(),
			Stats:      d.source.Stats,
		},
	}}
}

func (d *DirectVolume) Destroy() {
	if d.texture != nil {
		d.texture.Dispose()
		d.texture = nil
	}
	d.source = nil
}

func (d *DirectVolume) upload(rt *task.Runtime, vol *volume.Volume, p directVolumeParams) (ports.Texture, error) {
	if d.backend == nil {
		return nil, fmt.Errorf("direct-volume: %w", domain.ErrNoRenderBackend)
	}
	if err := rt.Checkpoint("allocating texture"); err != nil {
		return nil, err
	}
	tex, err := d.backend.CreateTexture(rt.Context(), ports.TextureSpec{
		Kind:     ports.Texture3D,
		Format:   "alpha",
		ElemType: "float32",
		Filter:   p.Filter,
	})
	if err != nil {
		return nil, fmt.Errorf("direct-volume: create texture: %w", err)
	}
	if err := rt.Checkpoint("uploading density"); err != nil {
		tex.Dispose()
		return nil, err
	}
	err = tex.Load(&ports.TextureImage{
		Width:  vol.Extent[0],
		Height: vol.Extent[1],
		Depth:  vol.Extent[2],
		Data:   vol.Values,
	})
	if err != nil {
		tex.Dispose()
		return nil, fmt.Errorf("direct-volume: upload: %w", err)
	}
	return tex, nil
}
