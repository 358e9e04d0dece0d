package domain

import "fmt"

// Snapshot is the serializable description of a whole state tree: its
// transform records in topological order, parents before children. The
// root transform is implied and never stored.
type Snapshot struct {
	// Name is an optional label for saved sessions.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Records lists every transform except the root, parent-first.
	Records []Transform `json:"records" yaml:"records"`
}

// Validate checks structural integrity: unique refs, no root overwrite,
// and every parent either the root or an earlier record.
func (s Snapshot) Validate() error {
	seen := map[Ref]bool{RootRef: true}
	for i, rec := range s.Records {
		if rec.Ref == "" {
			return fmt.Errorf("record %d: %w", i, ErrRefEmpty)
		}
		if rec.Ref == RootRef {
			return fmt.Errorf("record %d: %w", i, ErrDuplicateRef)
		}
		if seen[rec.Ref] {
			return fmt.Errorf("record %d (%s): %w", i, rec.Ref, ErrDuplicateRef)
		}
		if !seen[rec.Parent] {
			return fmt.Errorf("record %d (%s): parent %s: %w", i, rec.Ref, rec.Parent, ErrUnknownParent)
		}
		seen[rec.Ref] = true
	}
	return nil
}

// Clone deep-copies the snapshot, including per-record params and tags.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Name: s.Name}
	if s.Records != nil {
		out.Records = make([]Transform, len(s.Records))
		for i, rec := range s.Records {
			rec.Params = CopyParams(rec.Params)
			if rec.Tags != nil {
				tags := make([]string, len(rec.Tags))
				copy(tags, rec.Tags)
				rec.Tags = tags
			}
			out.Records[i] = rec
		}
	}
	return out
}

// Find returns the record with the given ref, or false.
func (s Snapshot) Find(ref Ref) (Transform, bool) {
	for _, rec := range s.Records {
		if rec.Ref == ref {
			return rec, true
		}
	}
	return Transform{}, false
}

// Children returns the refs whose parent is the given ref, in record order.
func (s Snapshot) Children(ref Ref) []Ref {
	var out []Ref
	for _, rec := range s.Records {
		if rec.Parent == ref {
			out = append(out, rec.Ref)
		}
	}
	return out
}

// Subtree returns ref and all its descendants, parent-first.
func (s Snapshot) Subtree(ref Ref) []Ref {
	out := []Ref{ref}
	for i := 0; i < len(out); i++ {
		out = append(out, s.Children(out[i])...)
	}
	return out
}
