package domain

// UpdateResult is a transformer's verdict on an in-place parameter change.
type UpdateResult int

const (
	// UpdateUnchanged means the new params produce the identical object;
	// nothing downstream needs to run.
	UpdateUnchanged UpdateResult = iota
	// UpdateUpdated means the object was mutated in place; descendants
	// must be re-evaluated.
	UpdateUpdated
	// UpdateRecreate means the change cannot be applied in place; the
	// engine disposes the object and re-applies the transform.
	UpdateRecreate
)

func (r UpdateResult) String() string {
	switch r {
	case UpdateUnchanged:
		return "unchanged"
	case UpdateUpdated:
		return "updated"
	case UpdateRecreate:
		return "recreate"
	default:
		return "unknown"
	}
}
