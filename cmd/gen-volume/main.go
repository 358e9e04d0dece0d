package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/qqdb/molstar/pkg/formats/ccp4"
)

// Grid extent per axis. Small enough to commit, large enough that
// isosurface and slice representations have something to chew on.
const extent = 32

func main() {
	targetFile := "examples/volume-demo/blobs.ccp4"
	if len(os.Args) > 1 {
		targetFile = os.Args[1]
	}

	// Ensure dir exists
	if err := os.MkdirAll(filepath.Dir(targetFile), 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating synthetic density map: %s\n", targetFile)

	f := &ccp4.File{
		Header: ccp4.Header{
			NC: extent, NR: extent, NS: extent,
			Mode: ccp4.ModeFloat32,
			NX:   extent, NY: extent, NZ: extent,
			XLength: extent, YLength: extent, ZLength: extent,
			Alpha: 90, Beta: 90, Gamma: 90,
			MAPC: 1, MAPR: 2, MAPS: 3,
			ISPG: 1,
		},
		Values: make([]float32, extent*extent*extent),
	}

	// Two Gaussian blobs along the column axis. A bimodal map makes
	// iso-level demos show two disconnected surfaces that merge as the
	// level drops.
	blobs := [][3]float64{
		{10, 16, 16},
		{22, 16, 16},
	}
	const sigma = 4.0

	for s := 0; s < extent; s++ {
		for r := 0; r < extent; r++ {
			for c := 0; c < extent; c++ {
				var v float64
				for _, b := range blobs {
					dc := float64(c) - b[0]
					dr := float64(r) - b[1]
					ds := float64(s) - b[2]
					v += math.Exp(-(dc*dc + dr*dr + ds*ds) / (2 * sigma * sigma))
				}
				f.Values[s*extent*extent+r*extent+c] = float32(v)
			}
		}
	}

	f.ComputeStats()

	out, err := os.Create(targetFile)
	check(err)
	defer out.Close()

	check(ccp4.Write(out, f))

	fmt.Printf("Done. %d samples, mean %.4f, rms %.4f\n",
		f.Header.SampleCount(), f.Header.AMean, f.Header.ARMS)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
