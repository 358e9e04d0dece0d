package schema

// Field describes one parameter of a transformer, representation or
// behavior: its type, whether it may be omitted, and the value used when
// it is.
type Field struct {
	Type        Type
	Default     any
	Optional    bool
	Description string
}

// Fields maps parameter names to their definitions.
// Example:
//
//	schema.Fields{
//	    "radius":  {Type: schema.Float(), Default: 1.4},
//	    "quality": {Type: schema.Enum("low", "medium", "high"), Default: "medium"},
//	}
type Fields map[string]Field

// Validate checks data against the field definitions. A field with a
// default or marked optional may be absent; unknown keys are rejected so
// that typos surface instead of being silently ignored. All failures are
// aggregated.
func (f Fields) Validate(data map[string]any) error {
	var errs []error

	for name, field := range f {
		value, exists := data[name]
		if !exists {
			if field.Optional || field.Default != nil {
				continue
			}
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: "required",
				Value:  nil,
			})
			continue
		}

		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	for key := range data {
		if _, known := f[key]; !known {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: "unknown parameter",
				Value:  data[key],
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// WithDefaults validates data and returns a copy with defaults filled in
// for absent fields. The input map is not modified.
func (f Fields) WithDefaults(data map[string]any) (map[string]any, error) {
	if err := f.Validate(data); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(f))
	for k, v := range data {
		out[k] = v
	}
	for name, field := range f {
		if _, exists := out[name]; !exists && field.Default != nil {
			out[name] = field.Default
		}
	}
	return out, nil
}

// Defaults returns the fully-defaulted parameter map for an empty input.
// Transformers use it to present their baseline parameters.
func (f Fields) Defaults() map[string]any {
	out := make(map[string]any, len(f))
	for name, field := range f {
		if field.Default != nil {
			out[name] = field.Default
		}
	}
	return out
}
