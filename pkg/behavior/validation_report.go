package behavior

import (
	"errors"

	"github.com/qqdb/molstar/pkg/property/validation"
	"github.com/qqdb/molstar/pkg/schema"
)

var validationReportFields = schema.Fields{
	"autoAttach": {Type: schema.Bool(), Default: false, Description: "Attach the report whenever a model is created."},
}

type validationReportParams struct {
	AutoAttach bool `mapstructure:"autoAttach"`
}

// ValidationReport wires the wwPDB validation property into a plugin:
// the provider and the geometry-quality color theme.
type ValidationReport struct {
	autoAttach bool

	ctx      *Context
	provider *validation.Provider
}

// NewValidationReport returns the behavior, unregistered.
func NewValidationReport() *ValidationReport { return &ValidationReport{} }

func (b *ValidationReport) Name() string { return "rcsb-validation-report" }

func (b *ValidationReport) Category() string { return "custom-props" }

// AutoAttach reports whether hosts should attach the property eagerly.
func (b *ValidationReport) AutoAttach() bool { return b.autoAttach }

// Provider returns the registered provider, nil while unregistered.
func (b *ValidationReport) Provider() *validation.Provider { return b.provider }

func (b *ValidationReport) Register(ctx *Context) error {
	if b.ctx != nil {
		return nil
	}

	provider := validation.New(ctx.Fetcher)
	if err := ctx.Registry.Providers.Register(provider); err != nil {
		return err
	}
	if err := ctx.Registry.Themes.Register(validation.GeometryQualityTheme); err != nil {
		_ = ctx.Registry.Providers.Unregister(provider.PropertyName())
		return err
	}

	b.ctx = ctx
	b.provider = provider
	return nil
}

func (b *ValidationReport) Update(params map[string]any) (bool, error) {
	validated, err := validationReportFields.WithDefaults(params)
	if err != nil {
		return false, err
	}
	var p validationReportParams
	if err := schema.Decode(validated, &p); err != nil {
		return false, err
	}
	changed := b.autoAttach != p.AutoAttach
	b.autoAttach = p.AutoAttach
	return changed, nil
}

func (b *ValidationReport) Unregister() error {
	if b.ctx == nil {
		return nil
	}
	reg := b.ctx.Registry
	err := errors.Join(
		reg.Themes.Unregister(validation.GeometryQualityTheme.Name),
		reg.Providers.Unregister(b.provider.PropertyName()),
	)
	b.ctx = nil
	b.provider = nil
	return err
}
