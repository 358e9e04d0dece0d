package ccp4

import (
	"fmt"
	"math"

	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/task"
	"github.com/qqdb/molstar/pkg/volume"
)

// ToVolume converts a parsed map into the canonical volume model:
//
//   - cell lengths are taken from xLength/yLength/zLength, angles converted
//     from degrees to radians, and ISPG names the spacegroup (0 means P 1);
//   - MAPC/MAPR/MAPS are normalized from 1-based axis assignments into a
//     0-based fast-to-slow order, and the sample block is reordered so the
//     stored values are always x-fastest;
//   - the Angstrom origin fields take precedence over NCSTART/NRSTART/NSSTART
//     whenever any of them is non-zero;
//   - AMIN/AMAX/AMEAN/ARMS are trusted as written.
//
// The reorder loop yields between sections so long conversions stay
// cancellable.
func (f *File) ToVolume(rt *task.Runtime) (*volume.Volume, error) {
	h := f.Header
	if got, want := len(f.Values), h.SampleCount(); got != want {
		return nil, fmt.Errorf("ccp4: %d samples for extent %dx%dx%d", got, h.NC, h.NR, h.NS)
	}

	spacegroup := int(h.ISPG)
	if spacegroup > 65536 {
		spacegroup = 0
	}
	cell := volume.NewSpacegroupCell(
		spacegroup,
		geometry.Vec3{float64(h.XLength), float64(h.YLength), float64(h.ZLength)},
		geometry.Vec3{
			float64(h.Alpha) * math.Pi / 180,
			float64(h.Beta) * math.Pi / 180,
			float64(h.Gamma) * math.Pi / 180,
		},
	)

	order := [3]int{int(h.MAPC) - 1, int(h.MAPR) - 1, int(h.MAPS) - 1}
	grid := [3]int{int(h.NX), int(h.NY), int(h.NZ)}
	for _, n := range grid {
		if n <= 0 {
			return nil, fmt.Errorf("ccp4: non-positive grid size %dx%dx%d", grid[0], grid[1], grid[2])
		}
	}

	// Source extent is column/row/section; scatter it into spatial x/y/z.
	src := [3]int{int(h.NC), int(h.NR), int(h.NS)}
	var extent [3]int
	extent[order[0]] = src[0]
	extent[order[1]] = src[1]
	extent[order[2]] = src[2]

	origin, err := originFrac(h, order, grid)
	if err != nil {
		return nil, err
	}

	values, err := reorderSamples(rt, f.Values, src, order, extent)
	if err != nil {
		return nil, err
	}

	v := &volume.Volume{
		Cell:            cell,
		Extent:          extent,
		GridSize:        grid,
		OriginFrac:      origin,
		SourceAxisOrder: order,
		Values:          values,
		Stats: volume.Stats{
			Min:   float64(h.AMin),
			Max:   float64(h.AMax),
			Mean:  float64(h.AMean),
			Sigma: float64(h.ARMS),
		},
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// originFrac places the sub-box origin in fractional cell coordinates. The
// Angstrom origin fields win when any of them is set; otherwise the grid
// start words are used, scattered from source into spatial order.
func originFrac(h Header, order [3]int, grid [3]int) (geometry.Vec3, error) {
	var gridOrigin [3]float64
	if h.OriginX != 0 || h.OriginY != 0 || h.OriginZ != 0 {
		// Angstrom origin is already spatial; voxel spacing converts it
		// to grid units.
		ang := [3]float64{float64(h.OriginX), float64(h.OriginY), float64(h.OriginZ)}
		length := [3]float64{float64(h.XLength), float64(h.YLength), float64(h.ZLength)}
		for i := 0; i < 3; i++ {
			if length[i] == 0 {
				return geometry.Vec3{}, fmt.Errorf("ccp4: zero cell length with non-zero origin")
			}
			gridOrigin[i] = ang[i] / (length[i] / float64(grid[i]))
		}
	} else {
		start := [3]float64{float64(h.NCStart), float64(h.NRStart), float64(h.NSStart)}
		gridOrigin[order[0]] = start[0]
		gridOrigin[order[1]] = start[1]
		gridOrigin[order[2]] = start[2]
	}
	return geometry.Vec3{
		gridOrigin[0] / float64(grid[0]),
		gridOrigin[1] / float64(grid[1]),
		gridOrigin[2] / float64(grid[2]),
	}, nil
}

// reorderSamples rewrites the file's column/row/section layout into the
// canonical x-fastest layout. The identity order is a straight copy.
func reorderSamples(rt *task.Runtime, src []float32, srcExtent [3]int, order [3]int, extent [3]int) ([]float32, error) {
	if order == [3]int{0, 1, 2} {
		out := make([]float32, len(src))
		copy(out, src)
		return out, nil
	}

	out := make([]float32, len(src))
	nc, nr, ns := srcExtent[0], srcExtent[1], srcExtent[2]
	ex, ey := extent[0], extent[1]
	i := 0
	var p [3]int
	for s := 0; s < ns; s++ {
		if s%8 == 0 {
			if err := rt.Checkpoint(""); err != nil {
				return nil, err
			}
		}
		p[order[2]] = s
		for r := 0; r < nr; r++ {
			p[order[1]] = r
			for c := 0; c < nc; c++ {
				p[order[0]] = c
				out[p[0]+ex*(p[1]+ey*p[2])] = src[i]
				i++
			}
		}
	}
	return out, nil
}
