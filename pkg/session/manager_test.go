package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/session"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Snapshot
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Snapshot)
	}
	s.data[sessionID] = snap
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[sessionID]; ok {
		return snap, nil
	}
	return nil, domain.ErrSnapshotNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	// Initial save
	_ = manager.Save(ctx, id, &domain.Snapshot{Name: id})

	var wg sync.WaitGroup
	concurrentWrites := 10

	// We want to verify that writes are serialized.
	// A Read-Modify-Write without locking would lose updates; here we
	// ensure the manager keeps concurrent saves safe.

	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func(val int) {
			defer wg.Done()

			// Just call Save. The Manager must ensure this is safe.
			// The SlowStore simulates IO delay.
			err := manager.Save(ctx, id, &domain.Snapshot{Name: "updated"})
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()
}

func TestManager_LoadOrInit(t *testing.T) {
	// Verify atomic creation
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	// Launch 2 routines trying to init same session
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := manager.LoadOrInit(ctx, id, "fresh")
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	// Should exist and carry the init name
	snap, err := manager.Load(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "fresh", snap.Name)
	assert.Empty(t, snap.Records)
}

func TestManager_SaveRejectsBrokenSnapshot(t *testing.T) {
	manager := session.NewManager(&SlowStore{})

	err := manager.Save(context.Background(), "bad", &domain.Snapshot{
		Records: []domain.Transform{
			{Ref: "orphan", Parent: "nowhere", Transformer: "download"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownParent)
}
