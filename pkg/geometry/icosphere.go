package geometry

import (
	"sync"

	"github.com/chewxy/math32"
)

// icosphere holds a unit sphere tessellation; vertices are packed xyz triples
// on the unit sphere, so they serve as normals too.
type icosphere struct {
	vertices []float32
	indices  []uint32
}

var (
	icoMu    sync.Mutex
	icoCache = map[int]*icosphere{}
)

// icosphereTable returns the cached tessellation for a subdivision level,
// generating it on first use.
func icosphereTable(detail int) *icosphere {
	icoMu.Lock()
	defer icoMu.Unlock()
	if s, ok := icoCache[detail]; ok {
		return s
	}
	s := buildIcosphere(detail)
	icoCache[detail] = s
	return s
}

func buildIcosphere(detail int) *icosphere {
	// Golden-ratio icosahedron.
	t := float32((1 + math32.Sqrt(5)) / 2)
	verts := []float32{
		-1, t, 0, 1, t, 0, -1, -t, 0, 1, -t, 0,
		0, -1, t, 0, 1, t, 0, -1, -t, 0, 1, -t,
		t, 0, -1, t, 0, 1, -t, 0, -1, -t, 0, 1,
	}
	idx := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	for i := 0; i < len(verts); i += 3 {
		normalize3(verts[i : i+3])
	}

	for level := 0; level < detail; level++ {
		verts, idx = subdivide(verts, idx)
	}
	return &icosphere{vertices: verts, indices: idx}
}

// subdivide splits every triangle into four, reusing shared midpoints and
// projecting them back onto the unit sphere.
func subdivide(verts []float32, idx []uint32) ([]float32, []uint32) {
	type edge struct{ a, b uint32 }
	midpoints := map[edge]uint32{}

	midpoint := func(a, b uint32) uint32 {
		key := edge{a, b}
		if a > b {
			key = edge{b, a}
		}
		if m, ok := midpoints[key]; ok {
			return m
		}
		m := uint32(len(verts) / 3)
		v := []float32{
			(verts[a*3] + verts[b*3]) / 2,
			(verts[a*3+1] + verts[b*3+1]) / 2,
			(verts[a*3+2] + verts[b*3+2]) / 2,
		}
		normalize3(v)
		verts = append(verts, v...)
		midpoints[key] = m
		return m
	}

	out := make([]uint32, 0, len(idx)*4)
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i], idx[i+1], idx[i+2]
		ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
		out = append(out,
			a, ab, ca,
			b, bc, ab,
			c, ca, bc,
			ab, bc, ca,
		)
	}
	return verts, out
}
