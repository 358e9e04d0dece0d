package ports

import (
	"context"
	"testing"
	"time"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a
// SnapshotStore implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	id := "contract-test-snapshot-" + time.Now().Format("20060102150405")

	sample := &domain.Snapshot{
		Name: "contract",
		Records: []domain.Transform{
			{
				Ref:         "data",
				Parent:      domain.RootRef,
				Transformer: "download",
				Params:      map[string]any{"url": "https://models.example/1tqn.ccp4", "isBinary": true},
			},
			{
				Ref:         "vol",
				Parent:      "data",
				Transformer: "volume-from-ccp4",
				Tags:        []string{"density"},
			},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, id, sample)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Records, 2)
		assert.Equal(t, sample.Name, loaded.Name)
		assert.Equal(t, domain.Ref("data"), loaded.Records[0].Ref)
		assert.Equal(t, "volume-from-ccp4", loaded.Records[1].Transformer)
		assert.Equal(t, []string{"density"}, loaded.Records[1].Tags)
		// JSON persistence may widen numbers; the url must survive verbatim.
		assert.Equal(t, "https://models.example/1tqn.ccp4", loaded.Records[0].Params["url"])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		shorter := &domain.Snapshot{Records: sample.Records[:1]}
		require.NoError(t, store.Save(ctx, id, shorter))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Len(t, loaded.Records, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, id, sample)
		require.NoError(t, err)

		err = store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Delete of missing ID should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, id1, sample)
		_ = store.Save(ctx, id2, sample)

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
