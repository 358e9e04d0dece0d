package geometry

import (
	"github.com/chewxy/math32"
)

// MeshBuilder accumulates primitives into packed buffers and produces a Mesh.
// It is not safe for concurrent use; construction loops that run inside a task
// should checkpoint between primitives (the builder itself never blocks).
type MeshBuilder struct {
	vertices []float32
	normals  []float32
	indices  []uint32
	groups   []float32

	group float32
}

// NewMeshBuilder creates an empty builder with capacity hints for n vertices.
func NewMeshBuilder(vertexHint int) *MeshBuilder {
	return &MeshBuilder{
		vertices: make([]float32, 0, vertexHint*3),
		normals:  make([]float32, 0, vertexHint*3),
		indices:  make([]uint32, 0, vertexHint*2),
		groups:   make([]float32, 0, vertexHint),
	}
}

// SetGroup sets the picking-group id assigned to vertices added afterwards.
func (b *MeshBuilder) SetGroup(id int) {
	b.group = float32(id)
}

// VertexCount returns the number of vertices added so far.
func (b *MeshBuilder) VertexCount() int { return len(b.vertices) / 3 }

// AddSphere appends a unit icosphere scaled by radius at center. detail is the
// subdivision level: 0 is a plain icosahedron (12 vertices), each level
// quadruples the triangle count. Levels above 3 are clamped; spacefill
// rendering never needs more.
func (b *MeshBuilder) AddSphere(center Vec3, radius float64, detail int) {
	if detail < 0 {
		detail = 0
	}
	if detail > 3 {
		detail = 3
	}
	sph := icosphereTable(detail)

	base := uint32(len(b.vertices) / 3)
	cx, cy, cz := float32(center[0]), float32(center[1]), float32(center[2])
	r := float32(radius)

	for i := 0; i+2 < len(sph.vertices); i += 3 {
		nx, ny, nz := sph.vertices[i], sph.vertices[i+1], sph.vertices[i+2]
		b.vertices = append(b.vertices, cx+nx*r, cy+ny*r, cz+nz*r)
		// Unit-sphere vertices double as their own normals.
		b.normals = append(b.normals, nx, ny, nz)
		b.groups = append(b.groups, b.group)
	}
	for _, idx := range sph.indices {
		b.indices = append(b.indices, base+idx)
	}
}

// AddCylinder appends a closed cylinder from start to end with the given
// radius and radial segment count (minimum 3). Used for symmetry axes and
// bond sticks.
func (b *MeshBuilder) AddCylinder(start, end Vec3, radius float64, segments int) {
	if segments < 3 {
		segments = 3
	}
	axis := end.Sub(start)
	if axis.Length() == 0 {
		return
	}
	dir := axis.Normalize()

	// Build an orthonormal frame around dir.
	ref := Vec3{1, 0, 0}
	if math32.Abs(float32(dir[0])) > 0.9 {
		ref = Vec3{0, 1, 0}
	}
	u := dir.Cross(ref).Normalize()
	v := dir.Cross(u)

	base := uint32(len(b.vertices) / 3)
	for i := 0; i < segments; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		offset := u.Scale(radius * float64(math32.Cos(angle))).Add(v.Scale(radius * float64(math32.Sin(angle))))
		for _, p := range [2]Vec3{start.Add(offset), end.Add(offset)} {
			b.vertices = append(b.vertices, float32(p[0]), float32(p[1]), float32(p[2]))
			n := []float32{float32(offset[0]), float32(offset[1]), float32(offset[2])}
			normalize3(n)
			b.normals = append(b.normals, n...)
			b.groups = append(b.groups, b.group)
		}
	}
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		s0, e0 := base+uint32(2*i), base+uint32(2*i)+1
		s1, e1 := base+uint32(2*j), base+uint32(2*j)+1
		b.indices = append(b.indices, s0, e0, s1, s1, e0, e1)
	}

	// End caps, fanned from the axis endpoints.
	b.addCap(start, dir.Scale(-1), u, v, radius, segments)
	b.addCap(end, dir, u, v, radius, segments)
}

func (b *MeshBuilder) addCap(center, normal, u, v Vec3, radius float64, segments int) {
	base := uint32(len(b.vertices) / 3)
	nx, ny, nz := float32(normal[0]), float32(normal[1]), float32(normal[2])

	b.vertices = append(b.vertices, float32(center[0]), float32(center[1]), float32(center[2]))
	b.normals = append(b.normals, nx, ny, nz)
	b.groups = append(b.groups, b.group)

	for i := 0; i < segments; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		p := center.Add(u.Scale(radius * float64(math32.Cos(angle)))).Add(v.Scale(radius * float64(math32.Sin(angle))))
		b.vertices = append(b.vertices, float32(p[0]), float32(p[1]), float32(p[2]))
		b.normals = append(b.normals, nx, ny, nz)
		b.groups = append(b.groups, b.group)
	}
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		b.indices = append(b.indices, base, base+1+uint32(i), base+1+uint32(j))
	}
}

// Build produces the mesh and leaves the builder empty for reuse.
func (b *MeshBuilder) Build() *Mesh {
	m := NewMesh(b.vertices, b.normals, b.indices, b.groups)
	b.vertices = nil
	b.normals = nil
	b.indices = nil
	b.groups = nil
	return m
}
