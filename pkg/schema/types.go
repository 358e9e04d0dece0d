package schema

import (
	"fmt"
	"reflect"
)

// Type defines the contract for parameter validation.
// Implementations determine how values are checked against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		// Accept floats that are whole numbers (from JSON unmarshaling)
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// EnumType validates string values against a closed set of choices.
// Representation and theme parameters use it for quality levels, color
// sources and similar knobs.
type EnumType struct {
	choices []string
}

func (t *EnumType) Name() string {
	name := "enum("
	for i, c := range t.choices {
		if i > 0 {
			name += "|"
		}
		name += c
	}
	return name + ")"
}

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	for _, c := range t.choices {
		if s == c {
			return nil
		}
	}
	return fmt.Errorf("value %q not in %s", s, t.Name())
}

// Choices returns the allowed values.
func (t *EnumType) Choices() []string { return t.choices }

// Vec3Type validates a 3-component numeric vector, as produced by JSON
// ([]any of numbers) or typed slices. Spatial parameters (origins,
// directions, colors) use it.
type Vec3Type struct{}

func (t *Vec3Type) Name() string { return "vec3" }

func (t *Vec3Type) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected vec3, got %T", value)
	}
	if rv.Len() != 3 {
		return fmt.Errorf("expected 3 components, got %d", rv.Len())
	}
	f := Float()
	for i := 0; i < 3; i++ {
		if err := f.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
	}
	return nil
}

// Mat4Type validates a 16-component numeric matrix in column-major
// order. Conformation transforms take their affine transform this way.
type Mat4Type struct{}

func (t *Mat4Type) Name() string { return "mat4" }

func (t *Mat4Type) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected mat4, got %T", value)
	}
	if rv.Len() != 16 {
		return fmt.Errorf("expected 16 components, got %d", rv.Len())
	}
	f := Float()
	for i := 0; i < 16; i++ {
		if err := f.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
	}
	return nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Enum creates a validator for a closed set of string choices.
func Enum(choices ...string) Type {
	return &EnumType{choices: choices}
}

// Vec3 creates a validator for 3-component numeric vectors.
func Vec3() Type { return &Vec3Type{} }

// Mat4 creates a validator for 16-component column-major matrices.
func Mat4() Type { return &Mat4Type{} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// ParseType converts a string type name to a Type.
// Supports "string", "int", "float", "bool", "vec3", "mat4" and slices of
// those ("[string]", "[float]", ...). Enum and custom types have no
// string form.
func ParseType(typeStr string) (Type, error) {
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemTypeStr := typeStr[1 : len(typeStr)-1]
		elemType, err := ParseType(elemTypeStr)
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "vec3":
		return Vec3(), nil
	case "mat4":
		return Mat4(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}
