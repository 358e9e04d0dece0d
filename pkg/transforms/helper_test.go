package transforms_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/formats/ccp4"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/task"
)

const waterXYZ = `3
water
O 0.000 0.000 0.117
H 0.757 0.000 -0.471
H -0.757 0.000 -0.471
`

// apply validates params against the definition and runs its apply
// function inside a task, the way the tree engine does.
func apply(t *testing.T, def *registry.Transformer, src *domain.Object, params map[string]any) (*domain.Object, error) {
	t.Helper()
	validated, err := def.ValidateParams(params)
	require.NoError(t, err)
	var out *domain.Object
	_, runErr := task.New("apply", func(rt *task.Runtime) (struct{}, error) {
		obj, err := def.Apply(rt, src, validated)
		out = obj
		return struct{}{}, err
	}).Run(context.Background())
	return out, runErr
}

func update(t *testing.T, def *registry.Transformer, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
	t.Helper()
	validated, err := def.ValidateParams(params)
	require.NoError(t, err)
	var res domain.UpdateResult
	_, runErr := task.New("update", func(rt *task.Runtime) (struct{}, error) {
		r, err := def.Update(rt, src, current, validated)
		res = r
		return struct{}{}, err
	}).Run(context.Background())
	return res, runErr
}

func waterModel() *structure.Model {
	m := &structure.Model{
		Label: "water",
		Entry: "1abc",
		Chains: []structure.Chain{{
			ID: "A",
			Atoms: []structure.Atom{
				{Name: "O", Element: "O", Position: geometry.Vec3{0, 0, 0.117}},
				{Name: "H1", Element: "H", Position: geometry.Vec3{0.757, 0, -0.471}},
				{Name: "H2", Element: "H", Position: geometry.Vec3{-0.757, 0, -0.471}},
			},
		}},
	}
	return m
}

func waterStructure() *structure.Structure {
	return structure.FromModel(waterModel(), "")
}

// ccp4Bytes serializes a small float32 map: 2x3x4 samples 0..23 on a
// 10 Angstrom cubic P 1 cell.
func ccp4Bytes(t *testing.T) []byte {
	t.Helper()
	f := &ccp4.File{
		Header: ccp4.Header{
			NC: 2, NR: 3, NS: 4,
			Mode: ccp4.ModeFloat32,
			NX:   2, NY: 3, NZ: 4,
			XLength: 10, YLength: 10, ZLength: 10,
			Alpha: 90, Beta: 90, Gamma: 90,
			MAPC: 1, MAPR: 2, MAPS: 3,
			ISPG: 1,
		},
		Values: make([]float32, 24),
	}
	for i := range f.Values {
		f.Values[i] = float32(i)
	}
	f.ComputeStats()

	var buf bytes.Buffer
	require.NoError(t, ccp4.Write(&buf, f))
	return buf.Bytes()
}
