package domain

// CellStatus defines where a cell is in its lifecycle.
type CellStatus string

const (
	// StatusPending means the transform is attached but not yet applied.
	StatusPending CellStatus = "pending"
	// StatusProcessing means the transformer is currently running.
	StatusProcessing CellStatus = "processing"
	// StatusOK means the cell holds a valid object (possibly null).
	StatusOK CellStatus = "ok"
	// StatusError means the transformer failed; Err carries the message.
	StatusError CellStatus = "error"
)

// Cell is the observable state of one node in the tree: its transform
// record, lifecycle status and, once applied, the produced object. The
// runtime hands out copies; mutating a Cell does not touch the tree.
type Cell struct {
	Transform Transform
	Status    CellStatus
	Object    *Object
	Err       string

	// Version increments every time the object is replaced or updated in
	// place. Consumers use it to skip re-reading unchanged results.
	Version uint64
}

// Kind returns the kind of the held object, or KindNull while no object
// exists yet.
func (c Cell) Kind() Kind {
	return c.Object.Kind()
}

// Ready reports whether the cell finished successfully.
func (c Cell) Ready() bool {
	return c.Status == StatusOK
}
