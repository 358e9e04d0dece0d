package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two tree snapshots. The
// runtime turns it into the minimal set of cell operations: create what
// was added, re-apply or update what changed, dispose what was removed.
type SnapshotDiff struct {
	// Added holds records present only in the new snapshot, parent-first.
	Added []Transform

	// Updated holds the new version of records whose transformer, parent
	// or params changed, parent-first.
	Updated []Transform

	// Removed holds refs present only in the old snapshot, children
	// before parents so disposal can proceed leaf-inward.
	Removed []Ref
}

// DiffSnapshots calculates the difference between two snapshots. Records
// are matched by ref; a record whose transformer or parent changed counts
// as updated (the runtime recreates such cells), as does one whose params
// differ.
func DiffSnapshots(old, next Snapshot) *SnapshotDiff {
	diff := &SnapshotDiff{}

	oldByRef := make(map[Ref]Transform, len(old.Records))
	for _, rec := range old.Records {
		oldByRef[rec.Ref] = rec
	}
	nextByRef := make(map[Ref]Transform, len(next.Records))
	for _, rec := range next.Records {
		nextByRef[rec.Ref] = rec
	}

	for _, rec := range next.Records {
		prev, existed := oldByRef[rec.Ref]
		if !existed {
			diff.Added = append(diff.Added, rec)
			continue
		}
		if transformChanged(prev, rec) {
			diff.Updated = append(diff.Updated, rec)
		}
	}

	// Walk old records backwards so children are listed before parents.
	for i := len(old.Records) - 1; i >= 0; i-- {
		rec := old.Records[i]
		if _, kept := nextByRef[rec.Ref]; !kept {
			diff.Removed = append(diff.Removed, rec.Ref)
		}
	}

	return diff
}

func transformChanged(a, b Transform) bool {
	if a.Transformer != b.Transformer || a.Parent != b.Parent {
		return true
	}
	return !paramsEqual(a.Params, b.Params)
}

// paramsEqual treats nil and empty maps as equal.
func paramsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, exists := b[k]
		if !exists || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return len(d.Added) == 0 &&
		len(d.Updated) == 0 &&
		len(d.Removed) == 0
}
