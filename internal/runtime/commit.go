package runtime

import (
	"context"
	"fmt"
	"slices"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/task"
)

// Commit mutates the tree to match next. Removed cells are disposed
// child-first, added and changed records run parent-first, and object
// changes cascade to descendants through their transformers' update
// paths. Commit blocks while another mutation is in flight.
func (e *Engine) Commit(ctx context.Context, next domain.Snapshot) error {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()
	return e.commit(ctx, next)
}

// TryCommit is Commit without the wait: it returns ErrTreeBusy
// immediately when another mutation holds the tree.
func (e *Engine) TryCommit(ctx context.Context, next domain.Snapshot) error {
	if !e.commitMu.TryLock() {
		return domain.ErrTreeBusy
	}
	defer e.commitMu.Unlock()
	return e.commit(ctx, next)
}

func (e *Engine) commit(ctx context.Context, next domain.Snapshot) error {
	e.busy.Store(true)
	defer e.busy.Store(false)

	staged, defs, err := e.prepare(next)
	if err != nil {
		return err
	}

	diff := domain.DiffSnapshots(e.snapshot, staged)
	if diff.IsEmpty() {
		return nil
	}
	e.logger.InfoContext(ctx, "committing tree update",
		"records", len(staged.Records),
		"added", len(diff.Added),
		"updated", len(diff.Updated),
		"removed", len(diff.Removed))

	b := e.newBatch(staged, defs, diff)
	_, err = task.New("update tree", func(rt *task.Runtime) (struct{}, error) {
		return struct{}{}, b.run(rt)
	}).RunObserved(ctx, e.observer)
	if err != nil {
		b.unwind(ctx)
		e.emitTree(ctx, nil, nil, true)
		return err
	}

	e.install(ctx, b)
	e.emitTree(ctx, b.changedRefs, diff.Removed, false)
	return nil
}

// prepare validates the snapshot, resolves every transformer, defaults
// and deep-copies params, and statically checks kind admissibility along
// each edge. Nothing runs until the whole snapshot passes.
func (e *Engine) prepare(next domain.Snapshot) (domain.Snapshot, map[domain.Ref]*registry.Transformer, error) {
	if err := next.Validate(); err != nil {
		return domain.Snapshot{}, nil, err
	}

	defs := make(map[domain.Ref]*registry.Transformer, len(next.Records))
	toKind := map[domain.Ref]domain.Kind{domain.RootRef: domain.KindRoot}
	records := make([]domain.Transform, len(next.Records))

	for i, rec := range next.Records {
		def, err := e.registry.Get(rec.Transformer)
		if err != nil {
			return domain.Snapshot{}, nil, fmt.Errorf("record %s: %w", rec.Ref, err)
		}
		params, err := def.ValidateParams(rec.Params)
		if err != nil {
			return domain.Snapshot{}, nil, fmt.Errorf("record %s: %w", rec.Ref, err)
		}
		if err := def.AcceptsKind(toKind[rec.Parent]); err != nil {
			return domain.Snapshot{}, nil, fmt.Errorf("record %s under %s: %w", rec.Ref, rec.Parent, err)
		}
		rec.Params = domain.CopyParams(params)
		rec.Tags = slices.Clone(rec.Tags)
		toKind[rec.Ref] = def.To
		defs[rec.Ref] = def
		records[i] = rec
	}
	return domain.Snapshot{Name: next.Name, Records: records}, defs, nil
}

// batch is one staged tree mutation. It works on a copy of the cell map;
// the committed tree stays untouched until install, so a failed batch
// simply never becomes visible.
type batch struct {
	engine *Engine
	next   domain.Snapshot
	defs   map[domain.Ref]*registry.Transformer
	diff   *domain.SnapshotDiff

	cells   map[domain.Ref]*domain.Cell
	owned   map[domain.Ref]bool // cells cloned into this batch, safe to mutate
	changed map[domain.Ref]bool // object changed during this batch

	created    []*domain.Object // materialized this batch, unwound on failure
	superseded []*domain.Object // pre-batch objects replaced, disposed on success
	removed    []*domain.Cell   // removed cells child-first, disposed on success

	changedRefs []domain.Ref
}

func (e *Engine) newBatch(next domain.Snapshot, defs map[domain.Ref]*registry.Transformer, diff *domain.SnapshotDiff) *batch {
	cells := make(map[domain.Ref]*domain.Cell, len(e.cells))
	for ref, cell := range e.cells {
		cells[ref] = cell
	}
	return &batch{
		engine:  e,
		next:    next,
		defs:    defs,
		diff:    diff,
		cells:   cells,
		owned:   make(map[domain.Ref]bool),
		changed: make(map[domain.Ref]bool),
	}
}

func (b *batch) run(rt *task.Runtime) error {
	for _, ref := range b.diff.Removed {
		if cell, ok := b.cells[ref]; ok {
			delete(b.cells, ref)
			b.removed = append(b.removed, cell)
		}
	}

	added := make(map[domain.Ref]bool, len(b.diff.Added))
	for _, rec := range b.diff.Added {
		added[rec.Ref] = true
	}
	updated := make(map[domain.Ref]bool, len(b.diff.Updated))
	for _, rec := range b.diff.Updated {
		updated[rec.Ref] = true
	}

	total := len(b.next.Records)
	for i, rec := range b.next.Records {
		def := b.defs[rec.Ref]
		if err := rt.Progress(def.Label(), i+1, total); err != nil {
			return err
		}
		var err error
		switch {
		case added[rec.Ref]:
			err = b.create(rt, rec, def)
		case updated[rec.Ref]:
			err = b.refresh(rt, rec, def, true)
		case b.changed[rec.Parent]:
			err = b.refresh(rt, rec, def, false)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) create(rt *task.Runtime, rec domain.Transform, def *registry.Transformer) error {
	parent, err := b.parent(rec)
	if err != nil {
		return err
	}

	cell := &domain.Cell{Transform: rec, Status: domain.StatusPending}
	b.cells[rec.Ref] = cell
	b.owned[rec.Ref] = true
	b.engine.emitCell(rt.Context(), domain.EventCellCreated, cell)

	return b.produce(rt, cell, def, parent)
}

// refresh re-evaluates an existing cell, either because its own record
// changed (userInitiated) or because its parent's object did. The
// transformer's update path is tried first where permitted; everything
// else recreates.
func (b *batch) refresh(rt *task.Runtime, rec domain.Transform, def *registry.Transformer, userInitiated bool) error {
	parent, err := b.parent(rec)
	if err != nil {
		return err
	}

	cell := b.mutable(rec.Ref)
	oldRec := cell.Transform
	cell.Transform = rec

	if parent.Object.IsNull() {
		if cell.Object.IsNull() {
			return nil
		}
		b.supersede(cell.Object)
		b.setObject(rt, cell, domain.Null(def.Label()))
		return nil
	}

	if err := def.Applicable(parent.Object); err != nil {
		b.fail(rt, cell, err)
		return err
	}

	recreate := oldRec.Transformer != rec.Transformer ||
		oldRec.Parent != rec.Parent ||
		cell.Object.IsNull() ||
		def.Update == nil
	if !recreate && !userInitiated && !def.AutoUpdatable(oldRec.Params, rec.Params) {
		recreate = true
	}

	if !recreate {
		b.setStatus(rt, cell, domain.StatusProcessing)
		// The transformer works on a scratch copy of the object wrapper.
		// A failed batch then rolls back to the untouched original; a
		// payload-preserving update keeps the payload pointer alive.
		scratch := *cell.Object
		working := &scratch
		res, err := task.RunChild(rt, task.New(def.Label(), func(rt *task.Runtime) (domain.UpdateResult, error) {
			return def.Update(rt, parent.Object, working, rec.Params)
		}))
		if err != nil {
			b.fail(rt, cell, err)
			return err
		}
		switch res {
		case domain.UpdateUnchanged:
			b.setStatus(rt, cell, domain.StatusOK)
			return nil
		case domain.UpdateUpdated:
			cell.Object = working
			cell.Status = domain.StatusOK
			cell.Version = b.engine.version.Add(1)
			b.markChanged(cell)
			b.engine.emitCell(rt.Context(), domain.EventCellUpdated, cell)
			return nil
		}
		// UpdateRecreate falls through to a fresh apply.
	}

	b.supersede(cell.Object)
	cell.Object = nil
	cell.Status = domain.StatusPending
	if err := b.produce(rt, cell, def, parent); err != nil {
		return err
	}
	b.engine.emitCell(rt.Context(), domain.EventCellUpdated, cell)
	return nil
}

// produce runs the apply path into cell: null propagation, applicability,
// the transformer task itself, and the output kind check.
func (b *batch) produce(rt *task.Runtime, cell *domain.Cell, def *registry.Transformer, parent *domain.Cell) error {
	if parent.Object.IsNull() {
		b.setObject(rt, cell, domain.Null(def.Label()))
		return nil
	}
	if err := def.Applicable(parent.Object); err != nil {
		b.fail(rt, cell, err)
		return err
	}

	b.setStatus(rt, cell, domain.StatusProcessing)
	obj, err := task.RunChild(rt, task.New(def.Label(), func(rt *task.Runtime) (*domain.Object, error) {
		return def.Apply(rt, parent.Object, cell.Transform.Params)
	}))
	if err != nil {
		b.fail(rt, cell, err)
		return err
	}
	if err := def.CheckOutput(obj); err != nil {
		b.fail(rt, cell, err)
		return err
	}

	if !obj.IsNull() {
		b.created = append(b.created, obj)
	}
	b.setObject(rt, cell, obj)
	return nil
}

// mutable clones a committed cell into the batch so edits never leak into
// the pre-commit tree.
func (b *batch) mutable(ref domain.Ref) *domain.Cell {
	if b.owned[ref] {
		return b.cells[ref]
	}
	clone := *b.cells[ref]
	b.cells[ref] = &clone
	b.owned[ref] = true
	return &clone
}

func (b *batch) parent(rec domain.Transform) (*domain.Cell, error) {
	cell, ok := b.cells[rec.Parent]
	if !ok {
		return nil, fmt.Errorf("record %s: parent %s: %w", rec.Ref, rec.Parent, domain.ErrRefNotFound)
	}
	if !cell.Ready() {
		return nil, fmt.Errorf("record %s: parent %s: %w", rec.Ref, rec.Parent, domain.ErrCellNotReady)
	}
	return cell, nil
}

func (b *batch) setObject(rt *task.Runtime, cell *domain.Cell, obj *domain.Object) {
	cell.Object = obj
	cell.Err = ""
	cell.Status = domain.StatusOK
	cell.Version = b.engine.version.Add(1)
	b.markChanged(cell)
	b.engine.emitCell(rt.Context(), domain.EventCellStatusChanged, cell)
}

func (b *batch) setStatus(rt *task.Runtime, cell *domain.Cell, s domain.CellStatus) {
	cell.Status = s
	b.engine.emitCell(rt.Context(), domain.EventCellStatusChanged, cell)
}

func (b *batch) fail(rt *task.Runtime, cell *domain.Cell, err error) {
	cell.Status = domain.StatusError
	cell.Err = err.Error()
	b.engine.emitCell(rt.Context(), domain.EventCellStatusChanged, cell)
}

func (b *batch) markChanged(cell *domain.Cell) {
	ref := cell.Transform.Ref
	if !b.changed[ref] {
		b.changed[ref] = true
		b.changedRefs = append(b.changedRefs, ref)
	}
}

func (b *batch) supersede(obj *domain.Object) {
	if obj != nil && !obj.IsNull() {
		b.superseded = append(b.superseded, obj)
	}
}

// unwind compensates a failed batch: every object materialized during the
// run is disposed newest-first, and the committed tree is left exactly as
// it was.
func (b *batch) unwind(ctx context.Context) {
	for i := len(b.created) - 1; i >= 0; i-- {
		disposeObject(b.created[i])
	}
	b.engine.logger.InfoContext(ctx, "tree update rolled back",
		"disposed", len(b.created))
}

// install swaps the staged tree in, then releases what the batch
// superseded or removed.
func (e *Engine) install(ctx context.Context, b *batch) {
	e.stateMu.Lock()
	e.snapshot = b.next
	e.cells = b.cells
	e.stateMu.Unlock()

	for _, obj := range b.superseded {
		disposeObject(obj)
	}
	for _, cell := range b.removed {
		disposeObject(cell.Object)
		e.emitCell(ctx, domain.EventCellRemoved, cell)
	}
}
