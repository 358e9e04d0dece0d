package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode maps validated parameters onto a typed struct using mapstructure
// with weak typing, so JSON-decoded float64 values land in int fields and
// []any vectors land in [3]float64. Target fields use `mapstructure` tags.
func Decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}
