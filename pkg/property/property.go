package property

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/task"
)

// State tracks where a property is in its attach lifecycle.
type State int

const (
	// Unattached means no attach has been requested yet, or Clear reset it.
	Unattached State = iota
	// Attaching means a compute is currently running.
	Attaching
	// Attached means the compute succeeded and the value is cached.
	Attached
	// Failed means the compute failed; the error is cached and attach will
	// not retry until Clear.
	Failed
)

func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Attaching:
		return "attaching"
	case Attached:
		return "attached"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Value is the cached outcome of one attach: either data or the error the
// compute produced.
type Value[T any] struct {
	State State
	Data  T
	Err   error
}

// Descriptor names a custom property.
type Descriptor struct {
	// Name is the unique registry key, e.g. "rcsb-assembly-symmetry".
	Name string
	// DisplayName is shown in UIs; falls back to Name when empty.
	DisplayName string
}

// Owner is an entity that carries custom properties. Models, structures
// and volumes embed a Bag and expose it here.
type Owner interface {
	Properties() *Bag
}

// Provider computes a property of type T for entities of type E, caching
// the outcome in each entity's bag.
//
// Providers hold no locks. Callers are serialized by the tree engine's
// single-mutation discipline; concurrent Attach calls for the same entity
// are a caller bug.
type Provider[E Owner, T any] struct {
	desc    Descriptor
	compute func(rt *task.Runtime, e E) (T, error)
}

// NewProvider builds a provider from a descriptor and its compute function.
func NewProvider[E Owner, T any](desc Descriptor, compute func(rt *task.Runtime, e E) (T, error)) *Provider[E, T] {
	if desc.Name == "" {
		panic("property: descriptor needs a name")
	}
	if compute == nil {
		panic("property: nil compute")
	}
	return &Provider[E, T]{desc: desc, compute: compute}
}

// Descriptor returns the provider's descriptor.
func (p *Provider[E, T]) Descriptor() Descriptor { return p.desc }

// PropertyName returns the registry key.
func (p *Provider[E, T]) PropertyName() string { return p.desc.Name }

// Attach ensures the property is computed for the entity.
//
// Attach is idempotent: an Attached entity returns its cached value without
// recompute, and a Failed one returns the cached failure without retry.
// Cancellation is transient: if the runtime's context is canceled mid-
// compute the entry resets to Unattached and the context error is returned,
// so a later attach can try again.
func (p *Provider[E, T]) Attach(rt *task.Runtime, e E) (Value[T], error) {
	bag := e.Properties()

	if entry, ok := bag.get(p.desc.Name); ok {
		switch entry.state {
		case Attached, Failed:
			return asValue[T](entry), nil
		case Attaching:
			return Value[T]{}, fmt.Errorf("property %q: %w", p.desc.Name, errAttachReentered)
		}
	}

	bag.set(p.desc.Name, entry{state: Attaching})

	data, err := p.compute(rt, e)
	if ctxErr := rt.Context().Err(); ctxErr != nil {
		bag.delete(p.desc.Name)
		return Value[T]{}, fmt.Errorf("property %q: %w", p.desc.Name, ctxErr)
	}
	if err != nil {
		bag.set(p.desc.Name, entry{state: Failed, err: err})
		return Value[T]{State: Failed, Err: err}, nil
	}

	bag.set(p.desc.Name, entry{state: Attached, data: data})
	return Value[T]{State: Attached, Data: data}, nil
}

// Get reads the cached value without computing. It returns
// domain.ErrPropertyNotAttached while the entry is absent or still
// attaching, and the cached failure for Failed entries.
func (p *Provider[E, T]) Get(e E) (Value[T], error) {
	entry, ok := e.Properties().get(p.desc.Name)
	if !ok || entry.state == Attaching || entry.state == Unattached {
		return Value[T]{}, fmt.Errorf("property %q: %w", p.desc.Name, domain.ErrPropertyNotAttached)
	}
	return asValue[T](entry), nil
}

// StateOf reports the lifecycle state for the entity.
func (p *Provider[E, T]) StateOf(e E) State {
	entry, ok := e.Properties().get(p.desc.Name)
	if !ok {
		return Unattached
	}
	return entry.state
}

// Clear resets the entity to Unattached, allowing a failed attach to retry.
func (p *Provider[E, T]) Clear(e E) {
	e.Properties().delete(p.desc.Name)
}

func asValue[T any](en entry) Value[T] {
	v := Value[T]{State: en.state, Err: en.err}
	if en.data != nil {
		v.Data = en.data.(T)
	}
	return v
}
