package xyz_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/pkg/formats/xyz"
	"github.com/qqdb/molstar/pkg/geometry"
)

const water = `3
water
O  0.000  0.000  0.117
H  0.000  0.757 -0.469
H  0.000 -0.757 -0.469
`

func TestParse(t *testing.T) {
	m, err := xyz.Parse(strings.NewReader(water))
	require.NoError(t, err)

	assert.Equal(t, "water", m.Label)
	require.Len(t, m.Chains, 1)
	assert.Equal(t, "A", m.Chains[0].ID)
	require.Len(t, m.Chains[0].Atoms, 3)
	assert.Equal(t, "O", m.Chains[0].Atoms[0].Element)
	assert.Equal(t, geometry.Vec3{0, 0.757, -0.469}, m.Chains[0].Atoms[1].Position)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"bad count", "x\ncomment\n"},
		{"negative count", "-1\ncomment\n"},
		{"too few atoms", "3\ncomment\nO 0 0 0\n"},
		{"short line", "1\ncomment\nO 0 0\n"},
		{"bad coordinate", "1\ncomment\nO 0 zero 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := xyz.Parse(strings.NewReader(tc.in))
			assert.Error(t, err)
		})
	}
}

func TestParseDefaultLabel(t *testing.T) {
	m, err := xyz.Parse(strings.NewReader("1\n\nC 1 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "xyz model", m.Label)
}
