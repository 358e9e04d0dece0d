package volume

import (
	"fmt"

	"github.com/qqdb/molstar/pkg/geometry"
)

// Hermann-Mauguin symbols for the spacegroup numbers that show up in
// practice for deposited maps. Everything else formats by number.
var spacegroupNames = map[int]string{
	1:   "P 1",
	2:   "P -1",
	3:   "P 1 2 1",
	4:   "P 1 21 1",
	5:   "C 1 2 1",
	16:  "P 2 2 2",
	18:  "P 21 21 2",
	19:  "P 21 21 21",
	20:  "C 2 2 21",
	21:  "C 2 2 2",
	22:  "F 2 2 2",
	23:  "I 2 2 2",
	75:  "P 4",
	76:  "P 41",
	78:  "P 43",
	89:  "P 4 2 2",
	92:  "P 41 21 2",
	96:  "P 43 21 2",
	143: "P 3",
	144: "P 31",
	145: "P 32",
	152: "P 31 2 1",
	154: "P 32 2 1",
	155: "R 3 2",
	168: "P 6",
	169: "P 61",
	173: "P 63",
	178: "P 61 2 2",
	179: "P 65 2 2",
	195: "P 2 3",
	196: "F 2 3",
	197: "I 2 3",
	207: "P 4 3 2",
	209: "F 4 3 2",
	211: "I 4 3 2",
}

// SpacegroupName resolves an ISPG number to its symbol. Zero and one both
// mean "P 1"; unknown numbers keep their numeric form.
func SpacegroupName(number int) string {
	if number == 0 {
		return "P 1"
	}
	if name, ok := spacegroupNames[number]; ok {
		return name
	}
	return fmt.Sprintf("SG %d", number)
}

// NewSpacegroupCell builds a cell from an ISPG number, sizes in Angstrom
// and angles in radians.
func NewSpacegroupCell(number int, size, angles geometry.Vec3) SpacegroupCell {
	return SpacegroupCell{
		Name:   SpacegroupName(number),
		Number: number,
		Size:   size,
		Angles: angles,
	}
}
