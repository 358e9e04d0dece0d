package geometry

import (
	"github.com/chewxy/math32"

	"github.com/qqdb/molstar/pkg/cell"
)

// Mesh is an indexed triangle mesh. Buffers are interleaved xyz float32
// triples; Groups carries one picking-group id per vertex.
type Mesh struct {
	VertexCount   int
	TriangleCount int

	Vertices *cell.Cell[[]float32]
	Normals  *cell.Cell[[]float32]
	Indices  *cell.Cell[[]uint32]
	Groups   *cell.Cell[[]float32]
}

// NewMesh wraps raw buffers in cells. The slices are taken over, not copied.
func NewMesh(vertices, normals []float32, indices []uint32, groups []float32) *Mesh {
	return &Mesh{
		VertexCount:   len(vertices) / 3,
		TriangleCount: len(indices) / 3,
		Vertices:      cell.New(vertices),
		Normals:       cell.New(normals),
		Indices:       cell.New(indices),
		Groups:        cell.New(groups),
	}
}

// Update replaces the mesh buffers in place, version-marking only the cells
// whose contents actually changed. It reports whether anything changed.
func (m *Mesh) Update(vertices, normals []float32, indices []uint32, groups []float32) bool {
	changed := m.Vertices.SetIfChanged(vertices, cell.SlicesEqual[float32])
	changed = m.Normals.SetIfChanged(normals, cell.SlicesEqual[float32]) || changed
	changed = m.Indices.SetIfChanged(indices, cell.SlicesEqual[uint32]) || changed
	changed = m.Groups.SetIfChanged(groups, cell.SlicesEqual[float32]) || changed
	m.VertexCount = len(vertices) / 3
	m.TriangleCount = len(indices) / 3
	return changed
}

// BoundingSphere returns the center and radius of a sphere enclosing all
// vertices. An empty mesh yields a zero sphere at the origin.
func (m *Mesh) BoundingSphere() (center Vec3, radius float64) {
	vs := m.Vertices.Value()
	if len(vs) < 3 {
		return Vec3{}, 0
	}
	for i := 0; i+2 < len(vs); i += 3 {
		center[0] += float64(vs[i])
		center[1] += float64(vs[i+1])
		center[2] += float64(vs[i+2])
	}
	n := float64(len(vs) / 3)
	center = center.Scale(1 / n)
	for i := 0; i+2 < len(vs); i += 3 {
		d := center.Distance(Vec3{float64(vs[i]), float64(vs[i+1]), float64(vs[i+2])})
		if d > radius {
			radius = d
		}
	}
	return center, radius
}

// Lines is a set of line segments. VertexPairs holds start/end xyz triples
// per segment (6 floats each); Groups carries one id per segment.
type Lines struct {
	SegmentCount int

	VertexPairs *cell.Cell[[]float32]
	Groups      *cell.Cell[[]float32]
}

// NewLines wraps segment buffers in cells. The slices are taken over.
func NewLines(vertexPairs, groups []float32) *Lines {
	return &Lines{
		SegmentCount: len(vertexPairs) / 6,
		VertexPairs:  cell.New(vertexPairs),
		Groups:       cell.New(groups),
	}
}

// Update replaces the segment buffers in place and reports whether anything
// changed.
func (l *Lines) Update(vertexPairs, groups []float32) bool {
	changed := l.VertexPairs.SetIfChanged(vertexPairs, cell.SlicesEqual[float32])
	changed = l.Groups.SetIfChanged(groups, cell.SlicesEqual[float32]) || changed
	l.SegmentCount = len(vertexPairs) / 6
	return changed
}

// normalize3 normalizes a packed float32 vector in place, leaving degenerate
// (zero-length) normals untouched.
func normalize3(v []float32) {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return
	}
	v[0] /= l
	v[1] /= l
	v[2] /= l
}
