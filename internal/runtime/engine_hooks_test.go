package runtime_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/internal/runtime"
	"github.com/qqdb/molstar/pkg/domain"
)

// hookRecorder captures lifecycle events in arrival order. Hooks run
// synchronously inside the commit, so plain slices are safe.
type hookRecorder struct {
	created  []domain.Ref
	updated  []domain.Ref
	removed  []domain.Ref
	statuses []string
	failures []string
	trees    []domain.TreeEvent
}

func (r *hookRecorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCellCreated: func(_ context.Context, ev *domain.CellEvent) {
			r.created = append(r.created, ev.Ref)
		},
		OnCellUpdated: func(_ context.Context, ev *domain.CellEvent) {
			r.updated = append(r.updated, ev.Ref)
		},
		OnCellRemoved: func(_ context.Context, ev *domain.CellEvent) {
			r.removed = append(r.removed, ev.Ref)
		},
		OnStatusChanged: func(_ context.Context, ev *domain.CellEvent) {
			r.statuses = append(r.statuses, fmt.Sprintf("%s=%s", ev.Ref, ev.Status))
			if ev.Status == domain.StatusError {
				r.failures = append(r.failures, ev.Err)
			}
		},
		OnTreeUpdated: func(_ context.Context, ev *domain.TreeEvent) {
			r.trees = append(r.trees, *ev)
		},
	}
}

func (r *hookRecorder) reset() {
	*r = hookRecorder{}
}

func TestHooksObserveBuild(t *testing.T) {
	f := newFixture(t)
	hr := &hookRecorder{}
	eng := runtime.NewEngine(f.reg, runtime.WithHooks(hr.hooks()))

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", nil),
		rec("b", "a", "upper", nil),
	)))

	// Creation is parent-first and each cell walks processing to ok.
	assert.Equal(t, []domain.Ref{"a", "b"}, hr.created)
	assert.Equal(t, []string{"a=processing", "a=ok", "b=processing", "b=ok"}, hr.statuses)

	require.Len(t, hr.trees, 1)
	assert.Equal(t, []domain.Ref{"a", "b"}, hr.trees[0].Changed)
	assert.Empty(t, hr.trees[0].Removed)
	assert.False(t, hr.trees[0].RolledBack)
}

func TestHooksObserveUpdateCascade(t *testing.T) {
	f := newFixture(t)
	hr := &hookRecorder{}
	eng := runtime.NewEngine(f.reg, runtime.WithHooks(hr.hooks()))

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "x"}),
		rec("b", "a", "upper", nil),
	)))
	hr.reset()

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", map[string]any{"text": "y"}),
		rec("b", "a", "upper", nil),
	)))

	// a took the update path, b was recreated by the cascade; both report
	// as updated and land in the tree event.
	assert.Empty(t, hr.created)
	assert.Equal(t, []domain.Ref{"a", "b"}, hr.updated)
	require.Len(t, hr.trees, 1)
	assert.Equal(t, []domain.Ref{"a", "b"}, hr.trees[0].Changed)
}

func TestHooksObserveRemovalOrder(t *testing.T) {
	f := newFixture(t)
	hr := &hookRecorder{}
	eng := runtime.NewEngine(f.reg, runtime.WithHooks(hr.hooks()))

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", nil),
		rec("b", "a", "upper", nil),
		rec("c", "b", "upper", nil),
	)))
	hr.reset()

	require.NoError(t, eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", nil),
	)))

	// Children go before parents.
	assert.Equal(t, []domain.Ref{"c", "b"}, hr.removed)
	require.Len(t, hr.trees, 1)
	assert.Empty(t, hr.trees[0].Changed)
	assert.Equal(t, []domain.Ref{"c", "b"}, hr.trees[0].Removed)
}

func TestHooksObserveRollback(t *testing.T) {
	f := newFixture(t)
	hr := &hookRecorder{}
	eng := runtime.NewEngine(f.reg, runtime.WithHooks(hr.hooks()))

	err := eng.Commit(context.Background(), snap(
		rec("a", domain.RootRef, "make-data", nil),
		rec("boom", "a", "fail", nil),
	))
	require.ErrorIs(t, err, errBoom)

	assert.Contains(t, hr.statuses, "boom=error")
	require.Len(t, hr.failures, 1)
	assert.Contains(t, hr.failures[0], "boom")

	require.Len(t, hr.trees, 1)
	assert.True(t, hr.trees[0].RolledBack)
	assert.Empty(t, hr.trees[0].Changed)
	assert.Empty(t, hr.trees[0].Removed)
}
