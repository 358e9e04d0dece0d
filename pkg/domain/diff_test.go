package domain

import (
	"errors"
	"reflect"
	"testing"
)

func rec(ref, parent Ref, transformer string, params map[string]any) Transform {
	return Transform{Ref: ref, Parent: parent, Transformer: transformer, Params: params}
}

func TestDiffSnapshots(t *testing.T) {
	base := Snapshot{Records: []Transform{
		rec("data", RootRef, "download", map[string]any{"url": "u1"}),
		rec("vol", "data", "volume-from-ccp4", nil),
		rec("iso", "vol", "isosurface", map[string]any{"isoValue": 1.5}),
	}}

	tests := []struct {
		name        string
		old         Snapshot
		next        Snapshot
		wantAdded   []Ref
		wantUpdated []Ref
		wantRemoved []Ref
	}{
		{
			name:      "Initial Build (Old is Empty)",
			old:       Snapshot{},
			next:      base,
			wantAdded: []Ref{"data", "vol", "iso"},
		},
		{
			name: "No Changes",
			old:  base,
			next: base,
		},
		{
			name: "Param Change",
			old:  base,
			next: Snapshot{Records: []Transform{
				rec("data", RootRef, "download", map[string]any{"url": "u1"}),
				rec("vol", "data", "volume-from-ccp4", nil),
				rec("iso", "vol", "isosurface", map[string]any{"isoValue": 2.0}),
			}},
			wantUpdated: []Ref{"iso"},
		},
		{
			name: "Transformer Change Counts as Update",
			old:  base,
			next: Snapshot{Records: []Transform{
				rec("data", RootRef, "download", map[string]any{"url": "u1"}),
				rec("vol", "data", "volume-from-ccp4", nil),
				rec("iso", "vol", "direct-volume", map[string]any{"isoValue": 1.5}),
			}},
			wantUpdated: []Ref{"iso"},
		},
		{
			name: "Reparent Counts as Update",
			old:  base,
			next: Snapshot{Records: []Transform{
				rec("data", RootRef, "download", map[string]any{"url": "u1"}),
				rec("vol", "data", "volume-from-ccp4", nil),
				rec("iso", "data", "isosurface", map[string]any{"isoValue": 1.5}),
			}},
			wantUpdated: []Ref{"iso"},
		},
		{
			name: "Removal Lists Children First",
			old:  base,
			next: Snapshot{Records: []Transform{
				rec("data", RootRef, "download", map[string]any{"url": "u1"}),
			}},
			wantRemoved: []Ref{"iso", "vol"},
		},
		{
			name: "Mixed Add and Remove",
			old:  base,
			next: Snapshot{Records: []Transform{
				rec("data", RootRef, "download", map[string]any{"url": "u1"}),
				rec("vol", "data", "volume-from-ccp4", nil),
				rec("slice", "vol", "volume-slice", nil),
			}},
			wantAdded:   []Ref{"slice"},
			wantRemoved: []Ref{"iso"},
		},
		{
			name: "Nil and Empty Params are Equal",
			old: Snapshot{Records: []Transform{
				rec("vol", RootRef, "volume-from-ccp4", nil),
			}},
			next: Snapshot{Records: []Transform{
				rec("vol", RootRef, "volume-from-ccp4", map[string]any{}),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffSnapshots(tt.old, tt.next)

			if !reflect.DeepEqual(refsOf(got.Added), tt.wantAdded) {
				t.Errorf("Added = %v, want %v", refsOf(got.Added), tt.wantAdded)
			}
			if !reflect.DeepEqual(refsOf(got.Updated), tt.wantUpdated) {
				t.Errorf("Updated = %v, want %v", refsOf(got.Updated), tt.wantUpdated)
			}
			if !reflect.DeepEqual(got.Removed, tt.wantRemoved) {
				t.Errorf("Removed = %v, want %v", got.Removed, tt.wantRemoved)
			}

			wantEmpty := len(tt.wantAdded) == 0 && len(tt.wantUpdated) == 0 && len(tt.wantRemoved) == 0
			if got.IsEmpty() != wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got.IsEmpty(), wantEmpty)
			}
		})
	}
}

func refsOf(records []Transform) []Ref {
	if len(records) == 0 {
		return nil
	}
	out := make([]Ref, len(records))
	for i, r := range records {
		out[i] = r.Ref
	}
	return out
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		wantErr error
	}{
		{
			name: "Valid Parent-First Order",
			snap: Snapshot{Records: []Transform{
				rec("a", RootRef, "download", nil),
				rec("b", "a", "volume-from-ccp4", nil),
			}},
		},
		{
			name: "Forward Parent Reference",
			snap: Snapshot{Records: []Transform{
				rec("b", "a", "volume-from-ccp4", nil),
				rec("a", RootRef, "download", nil),
			}},
			wantErr: ErrUnknownParent,
		},
		{
			name: "Duplicate Ref",
			snap: Snapshot{Records: []Transform{
				rec("a", RootRef, "download", nil),
				rec("a", RootRef, "download", nil),
			}},
			wantErr: ErrDuplicateRef,
		},
		{
			name: "Root Overwrite",
			snap: Snapshot{Records: []Transform{
				rec(RootRef, RootRef, "download", nil),
			}},
			wantErr: ErrDuplicateRef,
		},
		{
			name: "Empty Ref",
			snap: Snapshot{Records: []Transform{
				rec("", RootRef, "download", nil),
			}},
			wantErr: ErrRefEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotSubtree(t *testing.T) {
	snap := Snapshot{Records: []Transform{
		rec("data", RootRef, "download", nil),
		rec("vol", "data", "volume-from-ccp4", nil),
		rec("iso", "vol", "isosurface", nil),
		rec("other", RootRef, "download", nil),
	}}

	got := snap.Subtree("data")
	want := []Ref{"data", "vol", "iso"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Subtree(data) = %v, want %v", got, want)
	}
}
