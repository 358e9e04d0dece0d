package structure

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/geometry"
)

// ChainLocation addresses one chain inside a structure. It is the unit the
// superposition transformer works on.
type ChainLocation struct {
	Structure *Structure
	ChainID   string
}

// Chain resolves the addressed chain.
func (l ChainLocation) Chain() (*Chain, error) {
	ch, ok := l.Structure.Model.Chain(l.ChainID)
	if !ok {
		return nil, fmt.Errorf("chain %q in %q: %w", l.ChainID, l.Structure.Label, ErrChainNotFound)
	}
	return ch, nil
}

// Coordinates returns the positions of the addressed chain's atoms.
func (l ChainLocation) Coordinates() ([]geometry.Vec3, error) {
	ch, err := l.Chain()
	if err != nil {
		return nil, err
	}
	out := make([]geometry.Vec3, len(ch.Atoms))
	for i, a := range ch.Atoms {
		out[i] = a.Position
	}
	return out, nil
}
