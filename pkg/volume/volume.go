// Package volume models volumetric density data on a regular grid inside
// a crystallographic unit cell.
package volume

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/property"
)

// SpacegroupCell describes the unit cell: spacegroup assignment, edge
// lengths in Angstrom and angles in radians.
type SpacegroupCell struct {
	Name   string
	Number int
	Size   geometry.Vec3
	Angles geometry.Vec3
}

// IsOrthogonal reports whether all cell angles are right angles.
func (c SpacegroupCell) IsOrthogonal(eps float64) bool {
	const right = 1.5707963267948966
	for i := 0; i < 3; i++ {
		d := c.Angles[i] - right
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

// Stats carries the precomputed value distribution from the source header.
// The values are trusted as-is; nothing recomputes them.
type Stats struct {
	Min   float64
	Max   float64
	Mean  float64
	Sigma float64
}

// AbsoluteFromRelative converts a sigma-relative iso level to an absolute
// density value.
func (s Stats) AbsoluteFromRelative(rel float64) float64 {
	return s.Mean + s.Sigma*rel
}

// RelativeFromAbsolute converts an absolute density value to sigma units.
// A zero sigma maps everything to 0.
func (s Stats) RelativeFromAbsolute(abs float64) float64 {
	if s.Sigma == 0 {
		return 0
	}
	return (abs - s.Mean) / s.Sigma
}

// Volume is density data sampled on a regular grid. Sample storage is
// canonical: x varies fastest, regardless of the source file's axis order.
// SourceAxisOrder records how the source stored its axes for provenance.
type Volume struct {
	Cell SpacegroupCell

	// Extent is the sample count per spatial axis.
	Extent [3]int

	// GridSize is the number of sampling intervals along each full unit
	// cell axis. Extent <= GridSize when the map covers a sub-box.
	GridSize [3]int

	// OriginFrac is the fractional position of the sampled box's corner
	// within the unit cell.
	OriginFrac geometry.Vec3

	// SourceAxisOrder is the fast-to-slow spatial axis order of the source
	// data, 0-based. The identity {0, 1, 2} means the source was already
	// x-fastest.
	SourceAxisOrder [3]int

	// Values holds Extent[0]*Extent[1]*Extent[2] samples, x-fastest.
	Values []float32

	Stats Stats

	props property.Bag
}

// Kind marks *Volume as a state object payload.
func (v *Volume) Kind() domain.Kind { return domain.KindVolume }

// Properties returns the volume's custom property bag.
func (v *Volume) Properties() *property.Bag { return &v.props }

// SampleCount returns the total number of samples.
func (v *Volume) SampleCount() int {
	return v.Extent[0] * v.Extent[1] * v.Extent[2]
}

// At returns the sample at canonical grid position (x, y, z).
// Out-of-range indices are a programmer error and panic.
func (v *Volume) At(x, y, z int) float32 {
	if x < 0 || x >= v.Extent[0] || y < 0 || y >= v.Extent[1] || z < 0 || z >= v.Extent[2] {
		panic(fmt.Sprintf("volume: index (%d,%d,%d) outside extent %v", x, y, z, v.Extent))
	}
	return v.Values[x+v.Extent[0]*(y+v.Extent[1]*z)]
}

// FractionalBox returns the sampled region as fractional unit-cell
// coordinates: its corner and size.
func (v *Volume) FractionalBox() (origin, dims geometry.Vec3) {
	for i := 0; i < 3; i++ {
		if v.GridSize[i] > 0 {
			dims[i] = float64(v.Extent[i]) / float64(v.GridSize[i])
		}
	}
	return v.OriginFrac, dims
}

// CartesianDimensions returns the sampled region's edge lengths in
// Angstrom. For non-orthogonal cells this is the axis-aligned
// approximation used for bounding shapes, not a full fractionalization.
func (v *Volume) CartesianDimensions() geometry.Vec3 {
	_, dims := v.FractionalBox()
	return geometry.Vec3{
		dims[0] * v.Cell.Size[0],
		dims[1] * v.Cell.Size[1],
		dims[2] * v.Cell.Size[2],
	}
}

// Validate checks internal consistency: positive extent and matching
// sample count.
func (v *Volume) Validate() error {
	for i := 0; i < 3; i++ {
		if v.Extent[i] <= 0 {
			return fmt.Errorf("volume: extent axis %d is %d", i, v.Extent[i])
		}
	}
	if len(v.Values) != v.SampleCount() {
		return fmt.Errorf("volume: %d values for extent %v (want %d)", len(v.Values), v.Extent, v.SampleCount())
	}
	return nil
}
