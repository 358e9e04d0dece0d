package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/internal/runtime"
	"github.com/qqdb/molstar/pkg/domain"
)

func TestParamChangeUpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "x"}),
	)))
	before, _ := eng.Cell("a")

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "y"}),
	)))
	after, _ := eng.Cell("a")

	assert.Equal(t, 1, f.applies["make-data"])
	assert.Equal(t, 1, f.updates["make-data"])

	// The update path ran instead of a recreate, and the version moved.
	assert.Equal(t, "y", string(after.Object.Payload.(domain.RawData).Bytes))
	assert.Equal(t, "y", after.Object.Label)
	assert.Greater(t, after.Version, before.Version)
}

func TestUnchangedUpdateStopsCascade(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "x"}),
		rec("b", "a", "upper", nil),
	)))
	aBefore, _ := eng.Cell("a")
	bBefore, _ := eng.Cell("b")

	// Only the ignored "salt" param changes: the transformer reports
	// Unchanged, so neither the version nor the child may move.
	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "x", "salt": 1}),
		rec("b", "a", "upper", nil),
	)))
	aAfter, _ := eng.Cell("a")
	bAfter, _ := eng.Cell("b")

	assert.Equal(t, 1, f.updates["make-data"])
	assert.Equal(t, 1, f.applies["upper"])
	assert.Equal(t, aBefore.Version, aAfter.Version)
	assert.Same(t, bBefore.Object, bAfter.Object)

	// The new params are committed even though nothing re-ran.
	got, _ := eng.Current().Find("a")
	assert.Equal(t, 1, got.Params["salt"])
}

func TestUpdateCascadesToChildren(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "x"}),
		rec("b", "a", "upper", nil),
	)))
	bBefore, _ := eng.Cell("b")

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "y"}),
		rec("b", "a", "upper", nil),
	)))
	bAfter, _ := eng.Cell("b")

	// "upper" has no update path, so the cascade recreates it.
	assert.Equal(t, 2, f.applies["upper"])
	assert.NotSame(t, bBefore.Object, bAfter.Object)
	assert.Equal(t, "Y", string(bAfter.Object.Payload.(domain.RawData).Bytes))
	assert.Greater(t, bAfter.Version, bBefore.Version)
}

func TestAutoUpdateUsesUpdatePath(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "x"}),
		rec("b", "a", "autoupd", nil),
	)))
	bBefore, _ := eng.Cell("b")

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "y"}),
		rec("b", "a", "autoupd", nil),
	)))
	bAfter, _ := eng.Cell("b")

	assert.Equal(t, 1, f.applies["autoupd"])
	assert.Equal(t, 1, f.updates["autoupd"])

	// The payload pointer survives the update; only its contents change.
	assert.Same(t, bBefore.Object.Payload.(*mutPayload), bAfter.Object.Payload.(*mutPayload))
	assert.Equal(t, "y", bAfter.Object.Payload.(*mutPayload).value)
}

func TestCanAutoUpdateFalseForcesApply(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "x"}),
		rec("b", "a", "noauto", nil),
	)))

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "y"}),
		rec("b", "a", "noauto", nil),
	)))

	// The automatic cascade may not take the update path.
	assert.Equal(t, 2, f.applies["noauto"])
	assert.Equal(t, 0, f.updates["noauto"])
}

func TestUpdateRecreateRoundTrip(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", nil),
		rec("b", "a", "fussy", map[string]any{"n": 1}),
	)))
	bBefore, _ := eng.Cell("b")

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", nil),
		rec("b", "a", "fussy", map[string]any{"n": 2}),
	)))
	bAfter, _ := eng.Cell("b")

	assert.Equal(t, 1, f.updates["fussy"])
	assert.Equal(t, 2, f.applies["fussy"])
	assert.NotSame(t, bBefore.Object, bAfter.Object)
	assert.Equal(t, domain.KindData, bAfter.Kind())
	assert.Equal(t, domain.StatusOK, bAfter.Status)
}

func TestTransformerSwapRecreatesAndDisposes(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", nil),
		rec("b", "a", "track", nil),
	)))

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", nil),
		rec("b", "a", "upper", nil),
	)))

	b, _ := eng.Cell("b")
	assert.Equal(t, "upper", b.Transform.Transformer)
	assert.Equal(t, 1, f.disposed)
}

func TestReparentRecreates(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a1", domain.RootRef, "make-data", map[string]any{"text": "one"}),
		rec("a2", domain.RootRef, "make-data", map[string]any{"text": "two"}),
		rec("b", "a1", "upper", nil),
	)))

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a1", domain.RootRef, "make-data", map[string]any{"text": "one"}),
		rec("a2", domain.RootRef, "make-data", map[string]any{"text": "two"}),
		rec("b", "a2", "upper", nil),
	)))

	b, _ := eng.Cell("b")
	assert.Equal(t, 2, f.applies["upper"])
	assert.Equal(t, "TWO", string(b.Object.Payload.(domain.RawData).Bytes))
}
