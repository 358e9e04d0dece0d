package registry

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/task"
)

// Transformer is a registered transform definition: a named computation
// from one payload kind to another, with a parameter schema and optional
// in-place update support.
//
// Only Name, To and Apply are mandatory. The engine fills in the optional
// behavior: a nil Update means every param change recreates the cell, a nil
// IsApplicable means the declared kind check is enough, and a nil
// CanAutoUpdate means param edits propagate automatically.
type Transformer struct {
	// Name is the unique registry key, e.g. "volume-from-ccp4".
	Name string
	// DisplayName is shown in tree views; falls back to Name when empty.
	DisplayName string

	// From lists the payload kinds accepted as source. An empty list means
	// the transformer only applies at the root.
	From []domain.Kind
	// To is the payload kind Apply must produce; the null payload is
	// always admissible.
	To domain.Kind

	// Params declares the parameter schema. Params maps are validated and
	// defaulted against it before Apply or Update run.
	Params schema.Fields

	// Apply produces the object from the source. It runs inside a task
	// and should checkpoint between expensive steps.
	Apply func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error)

	// Update applies new params to the existing object. The engine hands
	// in a scratch copy of the current wrapper; mutate it and return
	// Updated, or return Unchanged or Recreate to leave it alone. Nil
	// means in-place update is impossible and the engine recreates.
	Update func(rt *task.Runtime, src *domain.Object, current *domain.Object, params map[string]any) (domain.UpdateResult, error)

	// IsApplicable refines the kind check with payload inspection, e.g.
	// "accepts raw data only when its format is ccp4".
	IsApplicable func(src *domain.Object) bool

	// CanAutoUpdate decides whether a param edit may propagate without an
	// explicit user action.
	CanAutoUpdate func(oldParams, newParams map[string]any) bool
}

// Label returns the display name, falling back to the registry key.
func (t *Transformer) Label() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.Name
}

// AcceptsKind checks the declared kind list against a source kind. It is
// the static half of Applicable, usable before any object exists.
func (t *Transformer) AcceptsKind(kind domain.Kind) error {
	if kind == domain.KindRoot {
		if len(t.From) != 0 {
			return fmt.Errorf("transformer %q: %w", t.Name, domain.ErrKindMismatch)
		}
		return nil
	}
	for _, k := range t.From {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("transformer %q: source is %s: %w", t.Name, kind, domain.ErrKindMismatch)
}

// Applicable checks whether the transformer accepts the source object:
// first the declared kind list, then the optional payload inspection.
func (t *Transformer) Applicable(src *domain.Object) error {
	if err := t.AcceptsKind(src.Kind()); err != nil {
		return err
	}
	if t.IsApplicable != nil && !t.IsApplicable(src) {
		return fmt.Errorf("transformer %q: %w", t.Name, domain.ErrNotApplicable)
	}
	return nil
}

// ValidateParams checks params against the schema and returns the
// defaulted copy the engine stores on the transform record.
func (t *Transformer) ValidateParams(params map[string]any) (map[string]any, error) {
	if params == nil {
		params = map[string]any{}
	}
	out, err := t.Params.WithDefaults(params)
	if err != nil {
		return nil, fmt.Errorf("transformer %q: %w", t.Name, err)
	}
	return out, nil
}

// AutoUpdatable reports whether a param edit propagates without explicit
// user action.
func (t *Transformer) AutoUpdatable(oldParams, newParams map[string]any) bool {
	if t.CanAutoUpdate == nil {
		return true
	}
	return t.CanAutoUpdate(oldParams, newParams)
}

// CheckOutput verifies the produced object's kind against the declared To.
// Null is always admissible.
func (t *Transformer) CheckOutput(obj *domain.Object) error {
	kind := obj.Kind()
	if kind == domain.KindNull || kind == t.To {
		return nil
	}
	return fmt.Errorf("transformer %q produced %s, declares %s: %w", t.Name, kind, t.To, domain.ErrKindMismatch)
}

func (t *Transformer) validate() error {
	if t.Name == "" {
		return fmt.Errorf("transformer needs a name")
	}
	if t.To == "" {
		return fmt.Errorf("transformer %q needs an output kind", t.Name)
	}
	if t.Apply == nil {
		return fmt.Errorf("transformer %q needs an apply function", t.Name)
	}
	return nil
}
