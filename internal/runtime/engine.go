// Package runtime hosts the state-tree engine. The engine owns the
// committed tree of cells and mutates it exclusively through the
// build, diff, commit path: a declarative snapshot is diffed against the
// current tree, the difference runs as one cancellable task batch in
// parent-first order, and a failure anywhere rolls the tree back to its
// pre-commit state.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qqdb/molstar/internal/logging"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/task"
)

// Engine is the state-tree runtime. All structural mutations serialize
// behind one lock; reads see only committed state.
type Engine struct {
	registry *registry.Transformers
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	observer task.Observer

	// commitMu enforces the at-most-one-in-flight-mutation invariant.
	commitMu sync.Mutex
	busy     atomic.Bool

	// stateMu guards the committed snapshot and cell map; commits swap
	// them atomically after the batch succeeds.
	stateMu  sync.RWMutex
	snapshot domain.Snapshot
	cells    map[domain.Ref]*domain.Cell

	version atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithHooks installs lifecycle callbacks. Hooks run synchronously inside
// the commit; keep them fast.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// WithObserver installs a task observer receiving progress events for the
// commit batch and every transformer run inside it.
func WithObserver(obs task.Observer) Option {
	return func(e *Engine) { e.observer = obs }
}

// NewEngine creates an engine holding only the implicit root cell.
func NewEngine(reg *registry.Transformers, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		logger:   logging.NewNop(),
		cells:    make(map[domain.Ref]*domain.Cell),
	}
	e.cells[domain.RootRef] = &domain.Cell{
		Transform: domain.RootTransform(),
		Status:    domain.StatusOK,
		Object:    domain.NewObject(domain.RootPayload{}, "root"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Busy reports whether a tree mutation is in flight.
func (e *Engine) Busy() bool { return e.busy.Load() }

// Cell returns a copy of the cell with the given ref.
func (e *Engine) Cell(ref domain.Ref) (domain.Cell, bool) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	cell, ok := e.cells[ref]
	if !ok {
		return domain.Cell{}, false
	}
	return *cell, true
}

// Cells returns copies of every cell, root first, then committed record
// order (parents before children).
func (e *Engine) Cells() []domain.Cell {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	out := make([]domain.Cell, 0, len(e.cells))
	out = append(out, *e.cells[domain.RootRef])
	for _, rec := range e.snapshot.Records {
		if cell, ok := e.cells[rec.Ref]; ok {
			out = append(out, *cell)
		}
	}
	return out
}

// FindByTag returns copies of the cells whose transform carries the tag.
func (e *Engine) FindByTag(tag string) []domain.Cell {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	var out []domain.Cell
	for _, rec := range e.snapshot.Records {
		if rec.HasTag(tag) {
			if cell, ok := e.cells[rec.Ref]; ok {
				out = append(out, *cell)
			}
		}
	}
	return out
}

// Current returns a deep copy of the committed snapshot, suitable for
// serialization or as the base of the next update.
func (e *Engine) Current() domain.Snapshot {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.snapshot.Clone()
}

func (e *Engine) emitCell(ctx context.Context, typ domain.EventType, cell *domain.Cell) {
	var fn func(context.Context, *domain.CellEvent)
	switch typ {
	case domain.EventCellCreated:
		fn = e.hooks.OnCellCreated
	case domain.EventCellUpdated:
		fn = e.hooks.OnCellUpdated
	case domain.EventCellRemoved:
		fn = e.hooks.OnCellRemoved
	default:
		fn = e.hooks.OnStatusChanged
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.CellEvent{
		EventBase:   domain.EventBase{Timestamp: time.Now(), Type: typ},
		Ref:         cell.Transform.Ref,
		Parent:      cell.Transform.Parent,
		Transformer: cell.Transform.Transformer,
		Status:      cell.Status,
		Err:         cell.Err,
	})
}

func (e *Engine) emitTree(ctx context.Context, changed, removed []domain.Ref, rolledBack bool) {
	if e.hooks.OnTreeUpdated == nil {
		return
	}
	e.hooks.OnTreeUpdated(ctx, &domain.TreeEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventTreeUpdated},
		Changed:    changed,
		Removed:    removed,
		RolledBack: rolledBack,
	})
}

// disposable is implemented by payloads holding render or file resources.
type disposable interface{ Dispose() }

func disposeObject(obj *domain.Object) {
	if obj == nil {
		return
	}
	if d, ok := obj.Payload.(disposable); ok {
		d.Dispose()
	}
}
