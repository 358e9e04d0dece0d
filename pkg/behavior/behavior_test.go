package behavior_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/internal/testutils"
	"github.com/qqdb/molstar/pkg/behavior"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/task"
)

func newContext() *behavior.Context {
	return &behavior.Context{
		Registry: registry.NewSet(),
		Fetcher:  testutils.NewFakeFetcher(nil),
	}
}

func TestRegisterUnregisterIsSymmetric(t *testing.T) {
	behaviors := []behavior.Behavior{
		behavior.NewAssemblySymmetry(),
		behavior.NewValidationReport(),
	}

	for _, b := range behaviors {
		t.Run(b.Name(), func(t *testing.T) {
			ctx := newContext()
			before := ctx.Registry.Snapshot()

			require.NoError(t, b.Register(ctx))
			assert.False(t, ctx.Registry.Snapshot().Equal(before), "register must add something")

			require.NoError(t, b.Unregister())
			assert.True(t, ctx.Registry.Snapshot().Equal(before), "unregister must restore the pre-register state")
		})
	}
}

func TestAssemblySymmetryRegistersAllPieces(t *testing.T) {
	b := behavior.NewAssemblySymmetry()
	ctx := newContext()
	require.NoError(t, b.Register(ctx))

	assert.Contains(t, ctx.Registry.Providers.Names(), "rcsb-assembly-symmetry")
	assert.Contains(t, ctx.Registry.Transformers.Names(), "assembly-symmetry-axes")
	assert.Contains(t, ctx.Registry.Themes.Names(), "assembly-symmetry-cluster")
	assert.NotNil(t, b.Provider())
}

func TestValidationReportRegistersAllPieces(t *testing.T) {
	b := behavior.NewValidationReport()
	ctx := newContext()
	require.NoError(t, b.Register(ctx))

	assert.Contains(t, ctx.Registry.Providers.Names(), "rcsb-validation-report")
	assert.Contains(t, ctx.Registry.Themes.Names(), "geometry-quality")
	assert.Empty(t, ctx.Registry.Transformers.Names(), "the report contributes no transformer")
}

func TestRegisterTwiceIsNoop(t *testing.T) {
	b := behavior.NewAssemblySymmetry()
	ctx := newContext()
	require.NoError(t, b.Register(ctx))
	after := ctx.Registry.Snapshot()

	require.NoError(t, b.Register(ctx))
	assert.True(t, ctx.Registry.Snapshot().Equal(after))

	require.NoError(t, b.Unregister())
	assert.Empty(t, ctx.Registry.Providers.Names())
}

func TestRegisterRollsBackOnCollision(t *testing.T) {
	b := behavior.NewAssemblySymmetry()
	ctx := newContext()

	// A colliding transformer name makes the second registration step
	// fail; the provider registered before it must not leak.
	require.NoError(t, ctx.Registry.Transformers.Register(&registry.Transformer{
		Name: "assembly-symmetry-axes",
		To:   domain.KindNull,
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			return domain.Null("placeholder"), nil
		},
	}))

	before := ctx.Registry.Snapshot()
	err := b.Register(ctx)
	require.ErrorIs(t, err, registry.ErrAlreadyRegistered)
	assert.True(t, ctx.Registry.Snapshot().Equal(before), "partial registration must unwind")
	assert.Nil(t, b.Provider())
}

func TestUnregisterWithoutRegisterIsNoop(t *testing.T) {
	assert.NoError(t, behavior.NewAssemblySymmetry().Unregister())
	assert.NoError(t, behavior.NewValidationReport().Unregister())
}

func TestUpdateTogglesAutoAttach(t *testing.T) {
	for _, b := range []interface {
		behavior.Behavior
		AutoAttach() bool
	}{
		behavior.NewAssemblySymmetry(),
		behavior.NewValidationReport(),
	} {
		t.Run(b.Name(), func(t *testing.T) {
			changed, err := b.Update(map[string]any{"autoAttach": true})
			require.NoError(t, err)
			assert.True(t, changed)
			assert.True(t, b.AutoAttach())

			changed, err = b.Update(map[string]any{"autoAttach": true})
			require.NoError(t, err)
			assert.False(t, changed, "same params must report no change")

			_, err = b.Update(map[string]any{"autoAttach": "yes"})
			require.Error(t, err)
		})
	}
}
