package transforms_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/transforms"
	"github.com/qqdb/molstar/pkg/volume"
)

func TestParseXYZApply(t *testing.T) {
	def := transforms.ParseXYZ()
	src := domain.NewObject(domain.RawData{Bytes: []byte(waterXYZ), Format: "xyz"}, "water.xyz")

	obj, err := apply(t, def, src, map[string]any{"entry": "1ABC"})
	require.NoError(t, err)
	require.NoError(t, def.CheckOutput(obj))

	m := obj.Payload.(*structure.Model)
	assert.Equal(t, "water", m.Label, "comment line becomes the label")
	assert.Equal(t, "1ABC", m.Entry)
	assert.Equal(t, 3, m.AtomCount())
	assert.Equal(t, "3 atoms", obj.Description)
}

func TestParseXYZApplicability(t *testing.T) {
	def := transforms.ParseXYZ()

	xyz := domain.NewObject(domain.RawData{Format: "xyz"}, "a")
	unknown := domain.NewObject(domain.RawData{}, "b")
	ccp4 := domain.NewObject(domain.RawData{Format: "ccp4"}, "c")

	assert.NoError(t, def.Applicable(xyz))
	assert.NoError(t, def.Applicable(unknown))
	assert.ErrorIs(t, def.Applicable(ccp4), domain.ErrNotApplicable)
}

func TestParseXYZBadData(t *testing.T) {
	def := transforms.ParseXYZ()
	src := domain.NewObject(domain.RawData{Bytes: []byte("not a count\n")}, "junk")

	_, err := apply(t, def, src, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atom count")
}

func TestVolumeFromCCP4Apply(t *testing.T) {
	def := transforms.VolumeFromCCP4()
	src := domain.NewObject(domain.RawData{Bytes: ccp4Bytes(t), Format: "ccp4"}, "map.ccp4")

	obj, err := apply(t, def, src, nil)
	require.NoError(t, err)
	require.NoError(t, def.CheckOutput(obj))

	vol := obj.Payload.(*volume.Volume)
	assert.Equal(t, [3]int{2, 3, 4}, vol.Extent)
	assert.Equal(t, "P 1", vol.Cell.Name)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, math.Pi/2, vol.Cell.Angles[i], 1e-6)
	}
	assert.Equal(t, "map.ccp4", obj.Label)
	assert.Equal(t, "2x3x4, P 1", obj.Description)
}

func TestVolumeFromCCP4Applicability(t *testing.T) {
	def := transforms.VolumeFromCCP4()

	assert.NoError(t, def.Applicable(domain.NewObject(domain.RawData{Format: "mrc"}, "a")))
	assert.ErrorIs(t, def.Applicable(domain.NewObject(domain.RawData{}, "b")), domain.ErrNotApplicable)
}

func TestVolumeFromCCP4BadHeader(t *testing.T) {
	def := transforms.VolumeFromCCP4()
	src := domain.NewObject(domain.RawData{Bytes: []byte("short"), Format: "ccp4"}, "junk")

	_, err := apply(t, def, src, nil)
	require.Error(t, err)
}
