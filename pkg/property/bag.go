package property

import "errors"

// errAttachReentered guards against attach running twice for the same
// entity at once, which the caller contract forbids.
var errAttachReentered = errors.New("attach already in progress")

type entry struct {
	state State
	data  any
	err   error
}

// Bag stores the property entries of one entity, keyed by property name.
// Entities embed a Bag by value and hand it out via Properties(); the zero
// value is ready to use.
type Bag struct {
	entries map[string]entry
}

func (b *Bag) get(name string) (entry, bool) {
	en, ok := b.entries[name]
	return en, ok
}

func (b *Bag) set(name string, en entry) {
	if b.entries == nil {
		b.entries = make(map[string]entry)
	}
	b.entries[name] = en
}

func (b *Bag) delete(name string) {
	delete(b.entries, name)
}

// Names returns the names of all properties with entries, in no particular
// order. Tree views use it to show what is attached to an entity.
func (b *Bag) Names() []string {
	out := make([]string, 0, len(b.entries))
	for name := range b.entries {
		out = append(out, name)
	}
	return out
}

// Len returns the number of entries.
func (b *Bag) Len() int { return len(b.entries) }
