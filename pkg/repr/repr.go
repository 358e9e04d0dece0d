// Package repr builds renderable geometry from domain data. A
// representation owns its buffers between calls: Create fills them,
// Update adjusts them in place where the parameter change allows it, and
// Destroy releases whatever the backend allocated. Buffers live in value
// cells so hosts re-upload only what actually changed.
package repr

import (
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/task"
	"github.com/qqdb/molstar/pkg/volume"
)

// RenderKind tells the host how to draw a render object.
type RenderKind string

const (
	RenderMesh         RenderKind = "mesh"
	RenderLines        RenderKind = "lines"
	RenderDirectVolume RenderKind = "direct-volume"
)

// RenderObject is one drawable unit handed to the host renderer. Exactly
// one of Mesh, Lines or Volume is set, matching Kind.
type RenderObject struct {
	Kind   RenderKind
	Mesh   *geometry.Mesh
	Lines  *geometry.Lines
	Volume *VolumeChannel
}

// VolumeChannel is the direct-volume drawable: the uploaded texture plus
// the grid shape the host needs to place and ray-march it.
type VolumeChannel struct {
	Texture    ports.Texture
	Extent     [3]int
	Dimensions geometry.Vec3
	Stats      volume.Stats
}

// Representation turns one kind of domain data into render objects.
type Representation interface {
	// Label names the representation in tree views.
	Label() string

	// Create builds the representation from its source data. The data
	// type each implementation accepts is documented on it; a wrong type
	// is rejected with domain.ErrNotApplicable.
	Create(rt *task.Runtime, data any, params map[string]any) error

	// Update applies new params to the existing buffers, reporting
	// whether anything changed. Changes that cannot be applied in place
	// are the transformer's business: it recreates the representation.
	Update(rt *task.Runtime, params map[string]any) (bool, error)

	// RenderObjects returns the current drawables. Valid after Create.
	RenderObjects() []RenderObject

	// Destroy releases buffers and device resources. The representation
	// is unusable afterwards.
	Destroy()
}

// decodeParams validates params against fields, fills defaults and maps
// the result onto a typed struct. Representations default their own
// params so direct use outside a transformer behaves the same.
func decodeParams(fields schema.Fields, params map[string]any, out any) error {
	if params == nil {
		params = map[string]any{}
	}
	full, err := fields.WithDefaults(params)
	if err != nil {
		return err
	}
	return schema.Decode(full, out)
}

// Rendered wraps a live representation as a state-object payload, so the
// representation's lifetime is the cell's: removing the cell disposes the
// buffers and any device resources behind it.
type Rendered struct {
	Representation
}

// NewRendered wraps a representation for use as a cell payload.
func NewRendered(r Representation) *Rendered {
	return &Rendered{Representation: r}
}

// Kind marks *Rendered as a state object payload.
func (r *Rendered) Kind() domain.Kind { return domain.KindShape }

// Dispose releases the wrapped representation.
func (r *Rendered) Dispose() { r.Destroy() }
