package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/dsl"
	"github.com/qqdb/molstar/pkg/transforms"
)

func nextTreeEvent(t *testing.T, ch <-chan domain.TreeEvent) domain.TreeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "watch channel closed early")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for tree event")
		return domain.TreeEvent{}
	}
}

func buildWaterChain(t *testing.T, plugin *molstar.Plugin) {
	t.Helper()
	err := plugin.Build(context.Background(), func(b *dsl.Builder) {
		b.Root().
			Apply(transforms.NameDownload).Ref("data").
			Param("url", "mem://water.xyz").Param("format", "xyz").
			Apply(transforms.NameParseXYZ).Ref("model").
			Apply(transforms.NameStructureFromModel).Ref("struct")
	})
	require.NoError(t, err)
}

// TestWatchDeliversCommitAndRollbackEvents subscribes before any commit
// and checks that both outcomes of a tree update reach the watcher: a
// successful batch with its changed refs, and a failed batch flagged as
// rolled back.
func TestWatchDeliversCommitAndRollbackEvents(t *testing.T) {
	plugin := newPlugin(t, textAssets(map[string]string{
		"mem://water.xyz": waterXYZ,
	}))

	watchCtx, cancel := context.WithCancel(context.Background())
	ch := plugin.Watch(watchCtx)

	// 1. A successful commit reports every ref the batch touched.
	buildWaterChain(t, plugin)
	ev := nextTreeEvent(t, ch)
	require.False(t, ev.RolledBack)
	require.ElementsMatch(t, []domain.Ref{"data", "model", "struct"}, ev.Changed)

	// 2. A batch that dies mid-apply reports a rollback and no changes.
	err := plugin.Build(context.Background(), func(b *dsl.Builder) {
		b.Root().Apply(transforms.NameDownload).Ref("doomed").
			Param("url", "mem://missing.xyz")
	})
	require.Error(t, err)
	ev = nextTreeEvent(t, ch)
	require.True(t, ev.RolledBack)
	require.Empty(t, ev.Changed)

	// 3. Canceling the subscription closes the channel.
	cancel()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "expected closed channel after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for watch channel to close")
	}
}

// TestWatchStalledSubscriberDoesNotBlockCommits keeps a subscriber that
// never drains while commits keep flowing. Publishing must drop events
// for the stalled watcher instead of stalling the tree.
func TestWatchStalledSubscriberDoesNotBlockCommits(t *testing.T) {
	plugin := newPlugin(t, textAssets(map[string]string{
		"mem://water.xyz": waterXYZ,
	}))
	buildWaterChain(t, plugin)
	err := plugin.Build(context.Background(), func(b *dsl.Builder) {
		if st, ok := b.Find("struct"); ok {
			st.Apply(transforms.NameSpacefillRepr).Ref("spheres")
		}
	})
	require.NoError(t, err)

	watchCtx, cancel := context.WithCancel(context.Background())
	ch := plugin.Watch(watchCtx)

	const commits = 24
	done := make(chan error, 1)
	go func() {
		for i := 0; i < commits; i++ {
			size := 1.0 + float64(i)*0.01
			err := plugin.Build(context.Background(), func(b *dsl.Builder) {
				if st, ok := b.Find("spheres"); ok {
					st.Param("sizeFactor", size)
				}
			})
			if err != nil {
				done <- fmt.Errorf("commit %d: %w", i, err)
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Commits stalled behind a subscriber that never drains")
	}

	// The tree holds the last committed params even though most events
	// were never delivered.
	spheres, ok := plugin.Cell("spheres")
	require.True(t, ok)
	require.Equal(t, domain.StatusOK, spheres.Status)
	require.InDelta(t, 1.23, spheres.Transform.Params["sizeFactor"], 1e-9)

	cancel()
	received := 0
	for range ch {
		received++
	}
	require.Greater(t, received, 0)
	require.Less(t, received, commits, "expected the stalled subscriber to miss events")
}
