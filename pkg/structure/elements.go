package structure

import "strings"

// vdwRadii lists van der Waals radii in Angstrom for the elements that
// dominate biomolecular data. Values follow the Bondi compilation.
var vdwRadii = map[string]float64{
	"H":  1.20,
	"C":  1.70,
	"N":  1.55,
	"O":  1.52,
	"S":  1.80,
	"P":  1.80,
	"F":  1.47,
	"CL": 1.75,
	"BR": 1.85,
	"I":  1.98,
	"FE": 2.00,
	"MG": 1.73,
	"ZN": 1.39,
	"CA": 2.31,
	"NA": 2.27,
	"K":  2.75,
}

// DefaultVdwRadius is used for elements outside the table, matching the
// carbon radius so unknown heavy atoms stay visible.
const DefaultVdwRadius = 1.70

// VdwRadius returns the van der Waals radius for an element symbol,
// case-insensitive. Unknown symbols get DefaultVdwRadius.
func VdwRadius(element string) float64 {
	if r, ok := vdwRadii[strings.ToUpper(element)]; ok {
		return r
	}
	return DefaultVdwRadius
}
