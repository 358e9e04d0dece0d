package domain

import "errors"

// ErrRefNotFound is returned when a ref does not resolve to a cell in the tree.
var ErrRefNotFound = errors.New("ref not found")

// ErrRefEmpty is returned when a transform record carries no ref.
var ErrRefEmpty = errors.New("empty ref")

// ErrDuplicateRef is returned when a transform reuses a ref already present in the tree.
var ErrDuplicateRef = errors.New("duplicate ref")

// ErrUnknownParent is returned when a transform names a parent that does not exist.
var ErrUnknownParent = errors.New("unknown parent ref")

// ErrCycle is returned when reparenting would make a cell its own ancestor.
var ErrCycle = errors.New("transform cycle")

// ErrUnknownTransformer is returned when a transform names a transformer that is not registered.
var ErrUnknownTransformer = errors.New("unknown transformer")

// ErrNotApplicable is returned when a transformer rejects its source object.
var ErrNotApplicable = errors.New("transformer not applicable to source")

// ErrKindMismatch is returned when a source object's kind is outside a transformer's declared inputs.
var ErrKindMismatch = errors.New("source kind mismatch")

// ErrTreeBusy is returned when an update is requested while another update holds the tree.
var ErrTreeBusy = errors.New("state tree busy")

// ErrCellNotReady is returned when an operation needs a cell's object before it has been produced.
var ErrCellNotReady = errors.New("cell not ready")

// ErrSnapshotNotFound is returned when a snapshot ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrNoRenderBackend is returned when a representation needs GPU resources and no backend is attached.
var ErrNoRenderBackend = errors.New("no render backend attached")

// ErrPropertyNotAttached is returned when a custom property value is read before a successful attach.
var ErrPropertyNotAttached = errors.New("property not attached")
