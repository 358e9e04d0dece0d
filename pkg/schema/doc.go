// Package schema provides type-safe validation for transformer and
// representation parameters.
//
// It defines a small type system with built-in types (string, int, float,
// bool, vec3), enums, slices and custom validators. A Fields map binds
// parameter names to types, defaults and optionality, enabling runtime
// validation of the loosely-typed parameter maps that arrive from
// snapshots, the HTTP API and tool calls.
//
// Basic usage:
//
//	params := schema.Fields{
//	    "url":      {Type: schema.String()},
//	    "isBinary": {Type: schema.Bool(), Default: false},
//	    "quality":  {Type: schema.Enum("low", "medium", "high"), Default: "medium"},
//	}
//
//	data := map[string]any{
//	    "url": "https://models.example/1tqn.ccp4",
//	}
//
//	normalized, err := params.WithDefaults(data)
//	if err != nil {
//	    // Handle validation errors
//	}
//
// Validated maps decode onto typed structs via Decode, which tolerates the
// weak typing of JSON and YAML sources:
//
//	var p struct {
//	    URL      string `mapstructure:"url"`
//	    IsBinary bool   `mapstructure:"isBinary"`
//	}
//	err := schema.Decode(normalized, &p)
//
// Custom validators cover domain-specific constraints:
//
//	isoValue := schema.Custom("iso_value", func(v any) error {
//	    f, ok := v.(float64)
//	    if !ok {
//	        return fmt.Errorf("expected float")
//	    }
//	    if f < -10 || f > 10 {
//	        return fmt.Errorf("out of range")
//	    }
//	    return nil
//	})
package schema
