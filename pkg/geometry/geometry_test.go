package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	assert.Equal(t, Vec3{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vec3{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.InDelta(t, 32, a.Dot(b), 1e-12)

	cross := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	assert.Equal(t, Vec3{0, 0, 1}, cross)

	n := Vec3{3, 0, 4}.Normalize()
	assert.InDelta(t, 1, n.Length(), 1e-12)
	assert.InDelta(t, 5, Vec3{3, 0, 4}.Distance(Vec3{0, 0, 0}), 1e-12)
}

func TestMat4TransformPoint(t *testing.T) {
	// 90 degree rotation about Z plus a translation.
	angle := math.Pi / 2
	c, s := math.Cos(angle), math.Sin(angle)
	m := FromRotationTranslation([9]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}, Vec3{10, 0, 0})

	p := m.TransformPoint(Vec3{1, 0, 0})
	assert.InDelta(t, 10, p[0], 1e-12)
	assert.InDelta(t, 1, p[1], 1e-12)
	assert.InDelta(t, 0, p[2], 1e-12)

	// Directions ignore translation.
	d := m.TransformDirection(Vec3{1, 0, 0})
	assert.InDelta(t, 0, d[0], 1e-12)
	assert.InDelta(t, 1, d[1], 1e-12)
}

func TestMat4Mul(t *testing.T) {
	shift := FromRotationTranslation([9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, Vec3{1, 2, 3})
	twice := shift.Mul(shift)
	assert.Equal(t, Vec3{2, 4, 6}, twice.Translation())

	assert.True(t, Identity().IsIdentity(1e-12))
	assert.False(t, shift.IsIdentity(1e-12))
}

func TestCentroid(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2}}
	c := Centroid(pts)
	assert.Equal(t, Vec3{0.5, 0.5, 0.5}, c)

	assert.Equal(t, Vec3{}, Centroid(nil))
}

func TestMeshUpdateDiffing(t *testing.T) {
	m := NewMesh(
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		[]uint32{0, 1, 2},
		[]float32{0, 0, 0},
	)
	v0 := m.Vertices.Version()

	// Same content: no buffer version should move.
	changed := m.Update(
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		[]uint32{0, 1, 2},
		[]float32{0, 0, 0},
	)
	assert.False(t, changed)
	assert.Equal(t, v0, m.Vertices.Version())

	// Moved vertex: only the touched buffers change.
	iv := m.Indices.Version()
	changed = m.Update(
		[]float32{0, 0, 0, 2, 0, 0, 0, 1, 0},
		[]float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		[]uint32{0, 1, 2},
		[]float32{0, 0, 0},
	)
	assert.True(t, changed)
	assert.Greater(t, m.Vertices.Version(), v0)
	assert.Equal(t, iv, m.Indices.Version())
}

func TestBoundingSphere(t *testing.T) {
	m := NewMesh(
		[]float32{-1, 0, 0, 1, 0, 0},
		[]float32{0, 0, 1, 0, 0, 1},
		[]uint32{0, 1, 0},
		[]float32{0, 0},
	)
	center, radius := m.BoundingSphere()
	assert.InDelta(t, 0, center[0], 1e-6)
	assert.InDelta(t, 1, radius, 1e-6)
}

func TestAddSphereIcosahedron(t *testing.T) {
	b := NewMeshBuilder(16)
	b.AddSphere(Vec3{1, 2, 3}, 2.5, 0)
	m := b.Build()

	require.Equal(t, 12, m.VertexCount)
	require.Equal(t, 20, m.TriangleCount)

	verts := m.Vertices.Value()
	for i := 0; i+2 < len(verts); i += 3 {
		p := Vec3{float64(verts[i]), float64(verts[i+1]), float64(verts[i+2])}
		assert.InDelta(t, 2.5, p.Distance(Vec3{1, 2, 3}), 1e-5)
	}
}

func TestAddSphereSubdivision(t *testing.T) {
	b := NewMeshBuilder(64)
	b.AddSphere(Vec3{}, 1, 1)
	m := b.Build()

	// One subdivision: 42 vertices, 80 triangles.
	assert.Equal(t, 42, m.VertexCount)
	assert.Equal(t, 80, m.TriangleCount)
}

func TestAddCylinder(t *testing.T) {
	b := NewMeshBuilder(32)
	b.SetGroup(7)
	b.AddCylinder(Vec3{0, 0, 0}, Vec3{0, 0, 10}, 0.5, 8)
	m := b.Build()

	require.NotZero(t, m.VertexCount)
	require.NotZero(t, m.TriangleCount)

	// All vertices carry the active group id.
	for _, g := range m.Groups.Value() {
		assert.Equal(t, float32(7), g)
	}

	// Side vertices sit on the radius; cap centers sit on the axis.
	verts := m.Vertices.Value()
	onRadius := 0
	for i := 0; i+2 < len(verts); i += 3 {
		r := math.Hypot(float64(verts[i]), float64(verts[i+1]))
		if math.Abs(r-0.5) < 1e-5 {
			onRadius++
		}
	}
	assert.Greater(t, onRadius, 16)
}

func TestAddCylinderDegenerate(t *testing.T) {
	b := NewMeshBuilder(8)
	b.AddCylinder(Vec3{1, 1, 1}, Vec3{1, 1, 1}, 0.5, 8)
	m := b.Build()
	assert.Zero(t, m.VertexCount)
}

func TestBuilderGroups(t *testing.T) {
	b := NewMeshBuilder(32)
	b.SetGroup(0)
	b.AddSphere(Vec3{}, 1, 0)
	b.SetGroup(1)
	b.AddSphere(Vec3{5, 0, 0}, 1, 0)
	m := b.Build()

	groups := m.Groups.Value()
	require.Len(t, groups, 24)
	assert.Equal(t, float32(0), groups[0])
	assert.Equal(t, float32(1), groups[12])
}
