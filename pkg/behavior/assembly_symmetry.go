package behavior

import (
	"errors"

	"github.com/qqdb/molstar/pkg/property/symmetry"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/transforms"
)

var assemblySymmetryFields = schema.Fields{
	"autoAttach": {Type: schema.Bool(), Default: false, Description: "Attach the property whenever a structure is created."},
}

type assemblySymmetryParams struct {
	AutoAttach bool `mapstructure:"autoAttach"`
}

// AssemblySymmetry wires the RCSB assembly symmetry property into a
// plugin: the provider, the axes transformer and the cluster color
// theme.
type AssemblySymmetry struct {
	autoAttach bool

	ctx      *Context
	provider *symmetry.Provider
}

// NewAssemblySymmetry returns the behavior, unregistered.
func NewAssemblySymmetry() *AssemblySymmetry { return &AssemblySymmetry{} }

func (b *AssemblySymmetry) Name() string { return "rcsb-assembly-symmetry" }

func (b *AssemblySymmetry) Category() string { return "custom-props" }

// AutoAttach reports whether hosts should attach the property eagerly.
func (b *AssemblySymmetry) AutoAttach() bool { return b.autoAttach }

// Provider returns the registered provider, nil while unregistered.
func (b *AssemblySymmetry) Provider() *symmetry.Provider { return b.provider }

func (b *AssemblySymmetry) Register(ctx *Context) error {
	if b.ctx != nil {
		return nil
	}

	provider := symmetry.New(ctx.Fetcher)
	if err := ctx.Registry.Providers.Register(provider); err != nil {
		return err
	}
	if err := ctx.Registry.Transformers.Register(transforms.AssemblySymmetryAxes(provider, ctx.Logger)); err != nil {
		_ = ctx.Registry.Providers.Unregister(provider.PropertyName())
		return err
	}
	if err := ctx.Registry.Themes.Register(symmetry.ClusterTheme); err != nil {
		_ = ctx.Registry.Transformers.Unregister(transforms.NameAssemblySymmetryAxes)
		_ = ctx.Registry.Providers.Unregister(provider.PropertyName())
		return err
	}

	b.ctx = ctx
	b.provider = provider
	return nil
}

func (b *AssemblySymmetry) Update(params map[string]any) (bool, error) {
	validated, err := assemblySymmetryFields.WithDefaults(params)
	if err != nil {
		return false, err
	}
	var p assemblySymmetryParams
	if err := schema.Decode(validated, &p); err != nil {
		return false, err
	}
	changed := b.autoAttach != p.AutoAttach
	b.autoAttach = p.AutoAttach
	return changed, nil
}

func (b *AssemblySymmetry) Unregister() error {
	if b.ctx == nil {
		return nil
	}
	reg := b.ctx.Registry
	err := errors.Join(
		reg.Themes.Unregister(symmetry.ClusterTheme.Name),
		reg.Transformers.Unregister(transforms.NameAssemblySymmetryAxes),
		reg.Providers.Unregister(b.provider.PropertyName()),
	)
	b.ctx = nil
	b.provider = nil
	return err
}
