// Package structure holds the minimal atomic model: models with chains and
// atoms, structures derived from models, chain-level locations, and the
// superposition math that aligns one location onto another.
package structure

import (
	"errors"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/property"
)

// ErrChainNotFound reports a chain id that does not exist in the model.
var ErrChainNotFound = errors.New("structure: chain not found")

// Atom is a single atom site.
type Atom struct {
	Name     string // atom name, e.g. "CA"
	Element  string // element symbol, e.g. "C"
	Position geometry.Vec3
}

// Chain groups the atoms sharing an author chain id.
type Chain struct {
	ID    string
	Atoms []Atom
}

// Model is a parsed atomic model. Custom properties attach to the embedded
// bag; the bag's contents are caller-serialized like every other entity bag.
type Model struct {
	Label  string
	Entry  string // source entry id, e.g. a PDB id or file name
	Chains []Chain

	props property.Bag
}

func (m *Model) Kind() domain.Kind { return domain.KindModel }

func (m *Model) Properties() *property.Bag { return &m.props }

// Chain returns the chain with the given id.
func (m *Model) Chain(id string) (*Chain, bool) {
	for i := range m.Chains {
		if m.Chains[i].ID == id {
			return &m.Chains[i], true
		}
	}
	return nil, false
}

// AtomCount returns the total number of atoms across all chains.
func (m *Model) AtomCount() int {
	n := 0
	for i := range m.Chains {
		n += len(m.Chains[i].Atoms)
	}
	return n
}

// Structure is a model instantiated for visualization. It shares the model's
// coordinates until a transform copies them (see Transformed) and carries its
// own property bag, separate from the model's.
type Structure struct {
	Label string
	Model *Model

	props property.Bag
}

// FromModel derives a structure from a model. An empty label inherits the
// model's.
func FromModel(m *Model, label string) *Structure {
	if label == "" {
		label = m.Label
	}
	return &Structure{Label: label, Model: m}
}

func (s *Structure) Kind() domain.Kind { return domain.KindStructure }

func (s *Structure) Properties() *property.Bag { return &s.props }

// AtomCount returns the number of atoms in the underlying model.
func (s *Structure) AtomCount() int { return s.Model.AtomCount() }

// Transformed returns a copy of s whose coordinates are mapped through m.
// The receiver and its model are left untouched; the copy gets a fresh
// property bag since positional properties are invalidated by the move.
func (s *Structure) Transformed(m geometry.Mat4) *Structure {
	model := &Model{
		Label:  s.Model.Label,
		Entry:  s.Model.Entry,
		Chains: make([]Chain, len(s.Model.Chains)),
	}
	for i, ch := range s.Model.Chains {
		atoms := make([]Atom, len(ch.Atoms))
		for j, a := range ch.Atoms {
			a.Position = m.TransformPoint(a.Position)
			atoms[j] = a
		}
		model.Chains[i] = Chain{ID: ch.ID, Atoms: atoms}
	}
	return &Structure{Label: s.Label, Model: model}
}

// Coordinates returns every atom position in model order.
func (s *Structure) Coordinates() []geometry.Vec3 {
	out := make([]geometry.Vec3, 0, s.AtomCount())
	for i := range s.Model.Chains {
		for _, a := range s.Model.Chains[i].Atoms {
			out = append(out, a.Position)
		}
	}
	return out
}
