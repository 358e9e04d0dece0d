package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/dsl"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/transforms"
)

// loadPair builds two structure chains from the given conformations and
// returns the plugin. The structure cells are pinned to "fixed" and
// "mobile".
func loadPair(t *testing.T, fixed, mobile string) *molstar.Plugin {
	t.Helper()
	plugin := newPlugin(t, textAssets(map[string]string{
		"mem://fixed.xyz":  fixed,
		"mem://mobile.xyz": mobile,
	}))
	err := plugin.Build(context.Background(), func(b *dsl.Builder) {
		b.Root().
			Apply(transforms.NameDownload).Ref("fixed-data").
			Param("url", "mem://fixed.xyz").Param("format", "xyz").
			Apply(transforms.NameParseXYZ).Ref("fixed-model").
			Apply(transforms.NameStructureFromModel).Ref("fixed")
		b.Root().
			Apply(transforms.NameDownload).Ref("mobile-data").
			Param("url", "mem://mobile.xyz").Param("format", "xyz").
			Apply(transforms.NameParseXYZ).Ref("mobile-model").
			Apply(transforms.NameStructureFromModel).Ref("mobile")
	})
	require.NoError(t, err)
	return plugin
}

func cellStructure(t *testing.T, cell domain.Cell) *structure.Structure {
	t.Helper()
	require.NotNil(t, cell.Object, "cell %s has no object", cell.Transform.Ref)
	s, ok := cell.Object.Payload.(*structure.Structure)
	require.True(t, ok, "cell %s holds %s, want a structure", cell.Transform.Ref, cell.Kind())
	return s
}

// TestSuperpositionAlignsRotatedConformation aligns a rigid rotated copy
// of a structure onto the original. The residual must vanish and a
// transformed structure cell must appear under the mobile one.
func TestSuperpositionAlignsRotatedConformation(t *testing.T) {
	ctx := context.Background()
	plugin := loadPair(t, waterXYZ, rotatedXYZ)

	// 1. Before alignment the conformations are far apart.
	fixedCell, ok := plugin.Cell("fixed")
	require.True(t, ok)
	mobileCell, ok := plugin.Cell("mobile")
	require.True(t, ok)
	before, err := structure.RMSD(
		cellStructure(t, fixedCell).Coordinates(),
		cellStructure(t, mobileCell).Coordinates(),
	)
	require.NoError(t, err)
	require.Greater(t, before, 4.0)

	// 2. Superpose grafts the aligned copy and reports the residual.
	sup, err := plugin.Superpose(ctx, "fixed", "mobile")
	require.NoError(t, err)
	require.InDelta(t, 0, sup.RMSD, 1e-9, "rigid image should align exactly")

	// 3. The grafted cell is a structure child of the mobile cell,
	// reachable through its tag.
	tagged := plugin.FindByTag("superposed")
	require.Len(t, tagged, 1)
	aligned := tagged[0]
	require.Equal(t, domain.StatusOK, aligned.Status, "aligned cell: %s", aligned.Err)
	require.Equal(t, domain.Ref("mobile"), aligned.Transform.Parent)
	require.Equal(t, domain.KindStructure, aligned.Kind())

	// 4. Its coordinates coincide with the reference conformation.
	got := cellStructure(t, aligned).Coordinates()
	want := cellStructure(t, fixedCell).Coordinates()
	require.Len(t, got, len(want))
	for i := range want {
		for axis := 0; axis < 3; axis++ {
			require.InDelta(t, want[i][axis], got[i][axis], 1e-9,
				"atom %d axis %d", i, axis)
		}
	}
}

// TestSuperpositionRecoversTranslation checks the computed transform
// directly on a purely translated conformation.
func TestSuperpositionRecoversTranslation(t *testing.T) {
	plugin := loadPair(t, waterXYZ, shiftedXYZ)

	sup, err := plugin.Superpose(context.Background(), "fixed", "mobile")
	require.NoError(t, err)
	require.InDelta(t, 0, sup.RMSD, 1e-9)

	// The mobile copy sits at +(1, 2, 3), so mapping it back means
	// translating by the negation.
	tr := sup.Transform.Translation()
	require.InDelta(t, -1, tr[0], 1e-9)
	require.InDelta(t, -2, tr[1], 1e-9)
	require.InDelta(t, -3, tr[2], 1e-9)
}

// TestSuperpositionRejectsNonStructureCells ensures the operation fails
// cleanly when a ref points at something other than a structure.
func TestSuperpositionRejectsNonStructureCells(t *testing.T) {
	plugin := loadPair(t, waterXYZ, rotatedXYZ)

	_, err := plugin.Superpose(context.Background(), "fixed", "mobile-data")
	require.Error(t, err)
	require.Contains(t, err.Error(), "want a structure")

	_, err = plugin.Superpose(context.Background(), "no-such-ref", "mobile")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no cell")
}
