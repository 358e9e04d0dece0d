// Package geometry provides the math and buffer types renderable geometry is
// built from: Vec3/Mat4 linear algebra, triangle meshes, and line sets.
//
// Buffers are held in value-cells (see pkg/cell) so representation updates can
// replace contents in place and version-mark the change for the render
// backend, instead of rebuilding whole render objects.
package geometry

import "math"

// Vec3 is a 3-component vector. Math is done in float64; packed buffers
// downconvert to float32 at the edge.
type Vec3 [3]float64

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Dot returns the dot product v · w.
func (v Vec3) Dot(w Vec3) float64 { return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] }

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Length returns |v|.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Distance returns |v - w|.
func (v Vec3) Distance(w Vec3) float64 { return v.Sub(w).Length() }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged (callers treat it as degenerate input).
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Mat4 is a 4×4 matrix in column-major order: element (row, col) lives at
// index col*4+row. This matches the layout render backends consume directly.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromRotationTranslation assembles an affine transform from a 3×3 rotation
// (row-major r) and a translation t.
func FromRotationTranslation(r [9]float64, t Vec3) Mat4 {
	return Mat4{
		r[0], r[3], r[6], 0,
		r[1], r[4], r[7], 0,
		r[2], r[5], r[8], 0,
		t[0], t[1], t[2], 1,
	}
}

// Mul returns m * n (apply n first, then m).
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * n[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint applies m to p as a point (w = 1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// TransformDirection applies m to d as a direction (w = 0, translation
// ignored).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d[0] + m[4]*d[1] + m[8]*d[2],
		m[1]*d[0] + m[5]*d[1] + m[9]*d[2],
		m[2]*d[0] + m[6]*d[1] + m[10]*d[2],
	}
}

// Translation returns the translation column of m.
func (m Mat4) Translation() Vec3 { return Vec3{m[12], m[13], m[14]} }

// IsIdentity reports whether m deviates from the identity by at most eps per
// element.
func (m Mat4) IsIdentity(eps float64) bool {
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) > eps {
			return false
		}
	}
	return true
}

// Centroid returns the arithmetic mean of pts. Empty input yields the origin.
func Centroid(pts []Vec3) Vec3 {
	if len(pts) == 0 {
		return Vec3{}
	}
	var c Vec3
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}
