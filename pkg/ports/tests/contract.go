package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/qqdb/molstar/pkg/ports"
)

// LockerContractTest is a reusable test suite that verifies if an adapter
// complies with ports.DistributedLocker.
func LockerContractTest(t *testing.T, locker ports.DistributedLocker) {
	t.Helper()
	ctx := context.Background()

	// 1. Basic acquire and release
	t.Run("Lock_Release", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-key", 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error acquiring lock: %v", err)
		}
		if unlock == nil {
			t.Fatal("expected unlock func, got nil")
		}
		if err := unlock(ctx); err != nil {
			t.Errorf("unexpected error releasing lock: %v", err)
		}
	})

	// 2. Mutual exclusion: a second holder only proceeds after release
	t.Run("Mutual_Exclusion", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-mutex", 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error acquiring lock: %v", err)
		}

		var order []string
		var mu sync.Mutex
		done := make(chan struct{})

		go func() {
			defer close(done)
			unlock2, err := locker.Lock(ctx, "contract-mutex", 5*time.Second)
			if err != nil {
				t.Errorf("second acquire failed: %v", err)
				return
			}
			mu.Lock()
			order = append(order, "second")
			mu.Unlock()
			_ = unlock2(ctx)
		}()

		// Give the goroutine a chance to contend, then release.
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		order = append(order, "first-release")
		mu.Unlock()
		if err := unlock(ctx); err != nil {
			t.Fatalf("release failed: %v", err)
		}

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("second holder never acquired the lock")
		}

		mu.Lock()
		defer mu.Unlock()
		if len(order) != 2 || order[0] != "first-release" || order[1] != "second" {
			t.Errorf("unexpected acquisition order: %v", order)
		}
	})

	// 3. Different keys do not contend
	t.Run("Independent_Keys", func(t *testing.T) {
		unlockA, err := locker.Lock(ctx, "contract-a", 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = unlockA(ctx) }()

		acquired := make(chan struct{})
		go func() {
			unlockB, err := locker.Lock(ctx, "contract-b", 5*time.Second)
			if err != nil {
				t.Errorf("independent key acquire failed: %v", err)
				return
			}
			close(acquired)
			_ = unlockB(ctx)
		}()

		select {
		case <-acquired:
		case <-time.After(2 * time.Second):
			t.Fatal("independent key was blocked")
		}
	})
}
