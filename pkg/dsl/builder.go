package dsl

import (
	"fmt"
	"slices"

	"github.com/qqdb/molstar/pkg/domain"
)

// Builder accumulates transform steps and compiles them into a validated
// snapshot. Use New or From; the zero value has no root handle.
type Builder struct {
	name  string
	steps []*step
}

// step is one pending transform. Parent handles point at steps directly,
// so refs only need to exist once Build assigns them.
type step struct {
	parent      *step // nil means the tree root
	transformer string
	ref         domain.Ref
	params      map[string]any
	tags        []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithName labels the produced snapshot.
func WithName(name string) Option {
	return func(b *Builder) { b.name = name }
}

// New creates an empty builder.
func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// From seeds a builder with the records of an existing snapshot, so a
// committed tree can be edited incrementally and recommitted.
func From(snap domain.Snapshot, opts ...Option) *Builder {
	b := New(opts...)
	if b.name == "" {
		b.name = snap.Name
	}
	byRef := make(map[domain.Ref]*step, len(snap.Records))
	for _, rec := range snap.Records {
		s := &step{
			parent:      byRef[rec.Parent],
			transformer: rec.Transformer,
			ref:         rec.Ref,
			params:      domain.CopyParams(rec.Params),
			tags:        slices.Clone(rec.Tags),
		}
		b.steps = append(b.steps, s)
		byRef[rec.Ref] = s
	}
	return b
}

// Root returns the handle for the implicit tree root.
func (b *Builder) Root() Step {
	return Step{b: b}
}

// Find returns the handle of the step carrying the given ref. Steps that
// rely on generated refs cannot be found; name them with Ref first.
func (b *Builder) Find(ref domain.Ref) (Step, bool) {
	for _, s := range b.steps {
		if s.ref == ref {
			return Step{b: b, s: s}, true
		}
	}
	return Step{}, false
}

// Delete removes the step with the given ref and every descendant.
// Unknown refs are ignored, so deletes are idempotent.
func (b *Builder) Delete(ref domain.Ref) *Builder {
	doomed := make(map[*step]bool)
	// Steps are stored parent-first, so one pass marks whole subtrees.
	for _, s := range b.steps {
		if (s.ref != "" && s.ref == ref) || (s.parent != nil && doomed[s.parent]) {
			doomed[s] = true
		}
	}
	b.steps = slices.DeleteFunc(b.steps, func(s *step) bool { return doomed[s] })
	return b
}

// Build compiles the steps into a snapshot: explicit refs are checked for
// duplicates, unnamed steps receive generated refs, and params are
// deep-copied so later builder edits cannot reach into the result.
func (b *Builder) Build() (domain.Snapshot, error) {
	used := map[domain.Ref]bool{domain.RootRef: true}
	for _, s := range b.steps {
		if s.ref == "" {
			continue
		}
		if used[s.ref] {
			return domain.Snapshot{}, fmt.Errorf("build: ref %q: %w", s.ref, domain.ErrDuplicateRef)
		}
		used[s.ref] = true
	}

	refs := make(map[*step]domain.Ref, len(b.steps))
	counters := make(map[string]int)
	for _, s := range b.steps {
		ref := s.ref
		for ref == "" {
			counters[s.transformer]++
			candidate := domain.Ref(fmt.Sprintf("%s-%d", s.transformer, counters[s.transformer]))
			if !used[candidate] {
				used[candidate] = true
				ref = candidate
			}
		}
		refs[s] = ref
	}

	records := make([]domain.Transform, len(b.steps))
	for i, s := range b.steps {
		parent := domain.RootRef
		if s.parent != nil {
			parent = refs[s.parent]
		}
		records[i] = domain.Transform{
			Ref:         refs[s],
			Parent:      parent,
			Transformer: s.transformer,
			Params:      domain.CopyParams(s.params),
			Tags:        slices.Clone(s.tags),
		}
	}

	snap := domain.Snapshot{Name: b.name, Records: records}
	if err := snap.Validate(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("build: %w", err)
	}
	return snap, nil
}
