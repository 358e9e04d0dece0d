package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/qqdb/molstar/internal/logging"
	"github.com/qqdb/molstar/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// Debug runs log to Stderr so reports on Stdout stay clean; otherwise
// logging is off entirely.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

// createDebugHooks logs every cell and tree event, for --debug runs.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCellCreated: func(ctx context.Context, e *domain.CellEvent) {
			logger.Debug("Cell Created", "ref", e.Ref, "transformer", e.Transformer)
		},
		OnCellUpdated: func(ctx context.Context, e *domain.CellEvent) {
			logger.Debug("Cell Updated", "ref", e.Ref)
		},
		OnCellRemoved: func(ctx context.Context, e *domain.CellEvent) {
			logger.Debug("Cell Removed", "ref", e.Ref)
		},
		OnStatusChanged: func(ctx context.Context, e *domain.CellEvent) {
			if e.Err != "" {
				logger.Debug("Status Changed (Error)", "ref", e.Ref, "status", e.Status, "err", e.Err)
			} else {
				logger.Debug("Status Changed", "ref", e.Ref, "status", e.Status)
			}
		},
		OnTreeUpdated: func(ctx context.Context, e *domain.TreeEvent) {
			logger.Debug("Tree Updated", "changed", len(e.Changed), "removed", len(e.Removed), "rolled_back", e.RolledBack)
		},
	}
}

// logCompletion prints the closing line for interactive runs, keeping
// the [CTRL+C] echo users expect from an interrupted terminal.
func logCompletion(err error, quiet bool, sig os.Signal) {
	if quiet || err == nil {
		return
	}
	if sig == os.Interrupt {
		fmt.Printf("[CTRL+C]\n")
		printSystemMessage("Interrupted.")
	} else if sig != nil {
		fmt.Printf("\n")
		printSystemMessage("Terminated.")
	}
}
