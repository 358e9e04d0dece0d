package structure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/structure"
)

func twoChainModel() *structure.Model {
	return &structure.Model{
		Label: "demo",
		Entry: "demo.xyz",
		Chains: []structure.Chain{
			{ID: "A", Atoms: []structure.Atom{
				{Name: "CA", Element: "C", Position: geometry.Vec3{0, 0, 0}},
				{Name: "CB", Element: "C", Position: geometry.Vec3{1, 0, 0}},
			}},
			{ID: "B", Atoms: []structure.Atom{
				{Name: "O", Element: "O", Position: geometry.Vec3{0, 5, 0}},
			}},
		},
	}
}

func TestModelAccessors(t *testing.T) {
	m := twoChainModel()
	assert.Equal(t, domain.KindModel, m.Kind())
	assert.Equal(t, 3, m.AtomCount())

	ch, ok := m.Chain("B")
	require.True(t, ok)
	assert.Len(t, ch.Atoms, 1)

	_, ok = m.Chain("Z")
	assert.False(t, ok)
}

func TestFromModel(t *testing.T) {
	m := twoChainModel()
	s := structure.FromModel(m, "")
	assert.Equal(t, "demo", s.Label)
	assert.Equal(t, domain.KindStructure, s.Kind())
	assert.Equal(t, 3, s.AtomCount())

	named := structure.FromModel(m, "assembly 1")
	assert.Equal(t, "assembly 1", named.Label)

	// Model and structure carry independent property bags.
	assert.NotSame(t, m.Properties(), s.Properties())
}

func TestChainLocation(t *testing.T) {
	s := structure.FromModel(twoChainModel(), "")

	coords, err := structure.ChainLocation{Structure: s, ChainID: "A"}.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, []geometry.Vec3{{0, 0, 0}, {1, 0, 0}}, coords)

	_, err = structure.ChainLocation{Structure: s, ChainID: "Z"}.Coordinates()
	assert.ErrorIs(t, err, structure.ErrChainNotFound)
}

func TestTransformedCopies(t *testing.T) {
	s := structure.FromModel(twoChainModel(), "")
	shift := geometry.FromRotationTranslation([9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, geometry.Vec3{10, 0, 0})

	moved := s.Transformed(shift)
	assert.Equal(t, geometry.Vec3{10, 0, 0}, moved.Model.Chains[0].Atoms[0].Position)
	assert.Equal(t, geometry.Vec3{11, 0, 0}, moved.Model.Chains[0].Atoms[1].Position)

	// Source coordinates must not move.
	assert.Equal(t, geometry.Vec3{0, 0, 0}, s.Model.Chains[0].Atoms[0].Position)
	assert.NotSame(t, s.Model, moved.Model)
}
