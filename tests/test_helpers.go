package tests

import (
	"bytes"
	"math"
	"testing"

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/pkg/adapters/memory"
	"github.com/qqdb/molstar/pkg/formats/ccp4"
)

// Standard fixtures shared across the scenario tests. The shifted and
// rotated conformations are exact rigid-body images of waterXYZ, so
// superposition must recover them with zero residual.
const (
	waterXYZ = `3
water
O  0.000  0.000  0.117
H  0.757  0.000 -0.471
H -0.757  0.000 -0.471
`

	// waterXYZ translated by (1, 2, 3).
	shiftedXYZ = `3
water-shifted
O  1.000  2.000  3.117
H  1.757  2.000  2.529
H  0.243  2.000  2.529
`

	// waterXYZ rotated 90 degrees about Z, then translated by (5, 0, 0).
	rotatedXYZ = `3
water-rotated
O  5.000  0.000  0.117
H  5.000  0.757 -0.471
H  5.000 -0.757 -0.471
`
)

// newPlugin builds a plugin over an in-memory asset set.
func newPlugin(t *testing.T, assets map[string][]byte, opts ...molstar.Option) *molstar.Plugin {
	t.Helper()
	opts = append([]molstar.Option{
		molstar.WithFetcher(memory.NewFetcher(assets)),
	}, opts...)
	plugin, err := molstar.New(opts...)
	if err != nil {
		t.Fatalf("Failed to init plugin: %v", err)
	}
	return plugin
}

// textAssets converts string fixtures into fetcher assets.
func textAssets(pairs map[string]string) map[string][]byte {
	out := make(map[string][]byte, len(pairs))
	for url, body := range pairs {
		out[url] = []byte(body)
	}
	return out
}

// gaussianMap serializes a single-blob CCP4 map of the given extent.
func gaussianMap(t *testing.T, extent int) []byte {
	t.Helper()
	n := int32(extent)
	f := &ccp4.File{
		Header: ccp4.Header{
			NC: n, NR: n, NS: n,
			Mode: ccp4.ModeFloat32,
			NX:   n, NY: n, NZ: n,
			XLength: float32(extent), YLength: float32(extent), ZLength: float32(extent),
			Alpha: 90, Beta: 90, Gamma: 90,
			MAPC: 1, MAPR: 2, MAPS: 3,
			ISPG: 1,
		},
		Values: make([]float32, extent*extent*extent),
	}

	center := float64(extent) / 2
	const sigma = 3.0
	for s := 0; s < extent; s++ {
		for r := 0; r < extent; r++ {
			for c := 0; c < extent; c++ {
				dc := float64(c) - center
				dr := float64(r) - center
				ds := float64(s) - center
				f.Values[s*extent*extent+r*extent+c] =
					float32(math.Exp(-(dc*dc + dr*dr + ds*ds) / (2 * sigma * sigma)))
			}
		}
	}
	f.ComputeStats()

	var buf bytes.Buffer
	if err := ccp4.Write(&buf, f); err != nil {
		t.Fatalf("Failed to serialize map: %v", err)
	}
	return buf.Bytes()
}
