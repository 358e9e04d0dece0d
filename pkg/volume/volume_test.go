package volume

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
)

func testVolume() *Volume {
	// 2x2x2 grid with values equal to their linear index.
	values := make([]float32, 8)
	for i := range values {
		values[i] = float32(i)
	}
	return &Volume{
		Cell:            NewSpacegroupCell(0, geometry.Vec3{10, 10, 10}, geometry.Vec3{math.Pi / 2, math.Pi / 2, math.Pi / 2}),
		Extent:          [3]int{2, 2, 2},
		GridSize:        [3]int{4, 4, 4},
		SourceAxisOrder: [3]int{0, 1, 2},
		Values:          values,
		Stats:           Stats{Min: 0, Max: 7, Mean: 3.5, Sigma: 2},
	}
}

func TestVolumeIsPayload(t *testing.T) {
	var p domain.Payload = testVolume()
	assert.Equal(t, domain.KindVolume, p.Kind())
}

func TestAtIndexing(t *testing.T) {
	v := testVolume()

	// x fastest: (1,0,0) is index 1; (0,1,0) is index 2; (0,0,1) is index 4.
	assert.Equal(t, float32(1), v.At(1, 0, 0))
	assert.Equal(t, float32(2), v.At(0, 1, 0))
	assert.Equal(t, float32(4), v.At(0, 0, 1))
	assert.Equal(t, float32(7), v.At(1, 1, 1))

	assert.Panics(t, func() { v.At(2, 0, 0) })
	assert.Panics(t, func() { v.At(0, -1, 0) })
}

func TestFractionalBox(t *testing.T) {
	v := testVolume()
	origin, dims := v.FractionalBox()

	assert.Equal(t, geometry.Vec3{}, origin)
	assert.Equal(t, geometry.Vec3{0.5, 0.5, 0.5}, dims)

	cart := v.CartesianDimensions()
	assert.Equal(t, geometry.Vec3{5, 5, 5}, cart)
}

func TestSpacegroupName(t *testing.T) {
	assert.Equal(t, "P 1", SpacegroupName(0))
	assert.Equal(t, "P 1", SpacegroupName(1))
	assert.Equal(t, "P 43 21 2", SpacegroupName(96))
	assert.Equal(t, "SG 230", SpacegroupName(230))
}

func TestStatsIsoConversion(t *testing.T) {
	s := Stats{Mean: 0.1, Sigma: 0.3}

	assert.InDelta(t, 0.7, s.AbsoluteFromRelative(2), 1e-12)
	assert.InDelta(t, 2, s.RelativeFromAbsolute(0.7), 1e-12)

	flat := Stats{Mean: 1, Sigma: 0}
	assert.Equal(t, 0.0, flat.RelativeFromAbsolute(5))
}

func TestValidate(t *testing.T) {
	v := testVolume()
	require.NoError(t, v.Validate())

	v.Values = v.Values[:7]
	assert.Error(t, v.Validate())

	v.Extent[0] = 0
	assert.Error(t, v.Validate())
}

func TestTrilinear(t *testing.T) {
	v := testVolume()

	// Exact grid points return the stored values.
	assert.Equal(t, float32(0), v.Trilinear(0, 0, 0))
	assert.Equal(t, float32(7), v.Trilinear(1, 1, 1))

	// Midpoint of the x edge between indices 0 and 1.
	assert.InDelta(t, 0.5, float64(v.Trilinear(0.5, 0, 0)), 1e-6)

	// Center of the cube is the mean of all eight corners.
	assert.InDelta(t, 3.5, float64(v.Trilinear(0.5, 0.5, 0.5)), 1e-6)

	// Outside clamps to the border.
	assert.Equal(t, float32(7), v.Trilinear(5, 5, 5))
	assert.Equal(t, float32(0), v.Trilinear(-1, -1, -1))
}

func TestIsOrthogonal(t *testing.T) {
	v := testVolume()
	assert.True(t, v.Cell.IsOrthogonal(1e-9))

	skew := NewSpacegroupCell(1, geometry.Vec3{10, 10, 10}, geometry.Vec3{math.Pi / 2, math.Pi / 2, 2 * math.Pi / 3})
	assert.False(t, skew.IsOrthogonal(1e-9))
}
