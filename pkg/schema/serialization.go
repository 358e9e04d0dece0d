package schema

import (
	"encoding/json"
	"fmt"
)

// fieldJSON is the wire form of a Field, used when adapters describe a
// transformer's parameters to clients.
type fieldJSON struct {
	Type        string `json:"type"`
	Default     any    `json:"default,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
	Description string `json:"description,omitempty"`
}

// MarshalJSON serializes fields as a map of parameter names to
// descriptors. Enum types serialize their full name ("enum(a|b)") so the
// choices remain visible to clients.
func (f Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}

	raw := make(map[string]fieldJSON, len(f))
	for key, field := range f {
		if field.Type == nil {
			return nil, fmt.Errorf("param %s: type is nil", key)
		}
		raw[key] = fieldJSON{
			Type:        field.Type.Name(),
			Default:     field.Default,
			Optional:    field.Optional,
			Description: field.Description,
		}
	}

	return json.Marshal(raw)
}

// UnmarshalJSON deserializes field descriptors. Only types with a string
// form round-trip; enum and custom types come back as unparseable names
// and produce an error, so wire schemas stick to the built-in types.
func (f *Fields) UnmarshalJSON(data []byte) error {
	if f == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}

	if string(data) == "null" {
		*f = nil
		return nil
	}

	var raw map[string]fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed := make(Fields, len(raw))
	for key, fj := range raw {
		typ, err := ParseType(fj.Type)
		if err != nil {
			return fmt.Errorf("param %s: %w", key, err)
		}
		parsed[key] = Field{
			Type:        typ,
			Default:     fj.Default,
			Optional:    fj.Optional,
			Description: fj.Description,
		}
	}

	*f = parsed
	return nil
}
