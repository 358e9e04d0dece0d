package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/internal/runtime"
	"github.com/qqdb/molstar/pkg/domain"
)

func TestTryCommitWhileBusy(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	done := make(chan error, 1)
	go func() {
		done <- eng.Commit(context.Background(), snap(
			rec("h", domain.RootRef, "hold", nil),
		))
	}()
	require.Eventually(t, eng.Busy, time.Second, time.Millisecond)

	err := eng.TryCommit(context.Background(), snap(
		rec("x", domain.RootRef, "make-data", nil),
	))
	require.ErrorIs(t, err, domain.ErrTreeBusy)

	close(f.gate)
	require.NoError(t, <-done)
	assert.False(t, eng.Busy())

	h, ok := eng.Cell("h")
	require.True(t, ok)
	assert.Equal(t, domain.StatusOK, h.Status)
	_, ok = eng.Cell("x")
	assert.False(t, ok)
}

func TestCommitQueuesBehindRunningBatch(t *testing.T) {
	f := newFixture(t)
	eng := runtime.NewEngine(f.reg)

	first := make(chan error, 1)
	go func() {
		first <- eng.Commit(context.Background(), snap(
			rec("h", domain.RootRef, "hold", nil),
		))
	}()
	require.Eventually(t, eng.Busy, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() {
		second <- eng.Commit(context.Background(), snap(
			rec("h", domain.RootRef, "hold", nil),
			rec("x", domain.RootRef, "make-data", nil),
		))
	}()

	// The second commit must wait for the running batch.
	select {
	case err := <-second:
		t.Fatalf("second commit finished while the tree was busy: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(f.gate)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	// The queued commit saw the committed h and only added x.
	assert.Equal(t, 1, f.applies["hold"])
	assert.Equal(t, 1, f.applies["make-data"])
	x, ok := eng.Cell("x")
	require.True(t, ok)
	assert.Equal(t, domain.StatusOK, x.Status)
}
