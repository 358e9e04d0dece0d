package ports

import (
	"context"

	"github.com/qqdb/molstar/pkg/domain"
)

// SnapshotStore defines the interface for persisting state tree snapshots.
// It enables durable sessions: a tree saved on one instance can be rebuilt
// on another from its transform records alone.
type SnapshotStore interface {
	// Save persists the snapshot under the given ID, overwriting any
	// previous version.
	Save(ctx context.Context, id string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given ID.
	// Returns domain.ErrSnapshotNotFound if the ID does not exist.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given ID. Deleting a missing ID
	// is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored snapshots.
	List(ctx context.Context) ([]string, error)
}
