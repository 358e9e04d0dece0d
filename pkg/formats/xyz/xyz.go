// Package xyz parses the plain XYZ coordinate format: an atom count line, a
// comment line, then one "Element x y z" line per atom. It is the minimal
// route from raw downloaded bytes to an atomic model.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/structure"
)

// Parse reads a single-frame XYZ file. All atoms land in one chain "A";
// the comment line becomes the model label when non-empty.
func Parse(r io.Reader) (*structure.Model, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		return nil, fmt.Errorf("xyz: missing atom count line")
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || count <= 0 {
		return nil, fmt.Errorf("xyz: bad atom count %q", strings.TrimSpace(sc.Text()))
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("xyz: missing comment line")
	}
	label := strings.TrimSpace(sc.Text())

	atoms := make([]structure.Atom, 0, count)
	for i := 0; i < count; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("xyz: expected %d atoms, got %d", count, i)
		}
		atom, err := parseAtom(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("xyz: line %d: %w", i+3, err)
		}
		atoms = append(atoms, atom)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("xyz: %w", err)
	}

	m := &structure.Model{
		Label:  label,
		Chains: []structure.Chain{{ID: "A", Atoms: atoms}},
	}
	if m.Label == "" {
		m.Label = "xyz model"
	}
	return m, nil
}

func parseAtom(line string) (structure.Atom, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return structure.Atom{}, fmt.Errorf("want element and 3 coordinates, got %q", line)
	}
	var pos geometry.Vec3
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return structure.Atom{}, fmt.Errorf("coordinate %q: %w", fields[i+1], err)
		}
		pos[i] = v
	}
	el := fields[0]
	return structure.Atom{Name: el, Element: el, Position: pos}, nil
}
