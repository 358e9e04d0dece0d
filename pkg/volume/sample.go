package volume

import "math"

// Trilinear samples the volume at a fractional grid position, where each
// coordinate runs from 0 to Extent[i]-1. Positions outside the grid clamp
// to the border.
func (v *Volume) Trilinear(x, y, z float64) float32 {
	x0, fx := splitCoord(x, v.Extent[0])
	y0, fy := splitCoord(y, v.Extent[1])
	z0, fz := splitCoord(z, v.Extent[2])

	x1 := clampIndex(x0+1, v.Extent[0])
	y1 := clampIndex(y0+1, v.Extent[1])
	z1 := clampIndex(z0+1, v.Extent[2])

	lerp := func(a, b float32, t float64) float32 {
		return a + float32(t)*(b-a)
	}

	c00 := lerp(v.At(x0, y0, z0), v.At(x1, y0, z0), fx)
	c10 := lerp(v.At(x0, y1, z0), v.At(x1, y1, z0), fx)
	c01 := lerp(v.At(x0, y0, z1), v.At(x1, y0, z1), fx)
	c11 := lerp(v.At(x0, y1, z1), v.At(x1, y1, z1), fx)

	c0 := lerp(c00, c10, fy)
	c1 := lerp(c01, c11, fy)
	return lerp(c0, c1, fz)
}

func splitCoord(c float64, extent int) (int, float64) {
	if c <= 0 {
		return 0, 0
	}
	max := float64(extent - 1)
	if c >= max {
		return extent - 1, 0
	}
	base := math.Floor(c)
	return int(base), c - base
}

func clampIndex(i, extent int) int {
	if i >= extent {
		return extent - 1
	}
	return i
}
