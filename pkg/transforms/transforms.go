// Package transforms holds the builtin transformer definitions: fetching
// raw data, parsing it into models and volumes, deriving structures and
// building representations. Each definition is a constructor so hosts can
// register them against their own registry set with their own ports.
package transforms

import (
	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/registry"
)

// Transformer names, stable across snapshots.
const (
	NameDownload              = "download"
	NameParseXYZ              = "parse-xyz"
	NameVolumeFromCCP4        = "volume-from-ccp4"
	NameStructureFromModel    = "structure-from-model"
	NameTransformConformation = "transform-conformation"
	NameSpacefillRepr         = "spacefill-repr"
	NameDirectVolumeRepr      = "direct-volume-repr"
	NameAssemblySymmetryAxes  = "assembly-symmetry-axes"
)

// RegisterCore installs the builtin transformers a plugin starts with.
// The backend may be nil; building a direct volume representation then
// fails with ErrNoRenderBackend.
func RegisterCore(set *registry.Set, fetcher ports.Fetcher, backend ports.RenderBackend) error {
	defs := []*registry.Transformer{
		Download(fetcher),
		ParseXYZ(),
		VolumeFromCCP4(),
		StructureFromModel(),
		TransformConformation(),
		SpacefillRepr(),
		DirectVolumeRepr(backend),
	}
	for _, def := range defs {
		if err := set.Transformers.Register(def); err != nil {
			return err
		}
	}
	return nil
}
