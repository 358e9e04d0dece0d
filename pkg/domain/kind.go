package domain

// Kind identifies the category of data a state object carries. Transformers
// declare the kinds they accept and the kind they produce, and the runtime
// enforces those declarations when transforms are attached and applied.
type Kind string

const (
	// KindRoot is the payload kind of the implicit tree root.
	KindRoot Kind = "root"
	// KindData is raw bytes plus a format hint, before parsing.
	KindData Kind = "data"
	// KindVolume is volumetric density data on a grid.
	KindVolume Kind = "volume"
	// KindModel is a parsed molecular model (atoms, no derived geometry).
	KindModel Kind = "model"
	// KindStructure is a model instanced into spatial coordinates.
	KindStructure Kind = "structure"
	// KindShape is renderable geometry produced by a representation.
	KindShape Kind = "shape"
	// KindNull marks an intentionally empty result. Cells holding it are
	// valid and their subtrees stay empty without being errors.
	KindNull Kind = "null"
)

// Payload is the typed content of a state object. Implementations live in
// the packages that own the data (volume, structure, repr); the domain
// package provides the kinds every tree has: root, raw data and null.
type Payload interface {
	Kind() Kind
}

// RootPayload is the payload of the tree root cell.
type RootPayload struct{}

func (RootPayload) Kind() Kind { return KindRoot }

// NullPayload marks a deliberately empty result, e.g. a representation of
// an empty selection. It is a terminal state, not an error.
type NullPayload struct{}

func (NullPayload) Kind() Kind { return KindNull }

// RawData is unparsed input: downloaded or read bytes plus a format hint
// for the parsing transformers downstream.
type RawData struct {
	Bytes  []byte
	Format string // e.g. "ccp4", "pdb"; empty when unknown
}

func (RawData) Kind() Kind { return KindData }
