package schema

import (
	"fmt"
	"testing"
)

func TestStringType(t *testing.T) {
	typ := String()

	if typ.Name() != "string" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "string")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"spacefill", false},
		{"", false},
		{42, true},
		{3.14, true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestIntType(t *testing.T) {
	typ := Int()

	if typ.Name() != "int" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "int")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{42, false},
		{int64(1), false},
		{float64(3), false}, // JSON whole number
		{3.5, true},
		{"3", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestFloatType(t *testing.T) {
	typ := Float()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{1.4, false},
		{float32(0.5), false},
		{2, false}, // ints promote
		{"1.4", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestEnumType(t *testing.T) {
	typ := Enum("low", "medium", "high")

	if typ.Name() != "enum(low|medium|high)" {
		t.Errorf("Name() = %q", typ.Name())
	}

	if err := typ.Validate("medium"); err != nil {
		t.Errorf("Validate(medium) error = %v, want nil", err)
	}
	if err := typ.Validate("ultra"); err == nil {
		t.Error("Validate(ultra) should fail")
	}
	if err := typ.Validate(3); err == nil {
		t.Error("Validate(3) should fail")
	}
}

func TestVec3Type(t *testing.T) {
	typ := Vec3()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{[]float64{0, 0, 1}, false},
		{[]any{0.5, 1, 2}, false}, // JSON form
		{[3]float64{1, 2, 3}, false},
		{[]float64{0, 0}, true},
		{[]any{"x", 1, 2}, true},
		{"0,0,1", true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestMat4Type(t *testing.T) {
	typ := Mat4()

	identity := make([]float64, 16)
	for i := 0; i < 16; i += 5 {
		identity[i] = 1
	}

	if err := typ.Validate(identity); err != nil {
		t.Errorf("Validate(identity) error = %v, want nil", err)
	}
	if err := typ.Validate([16]float64{}); err != nil {
		t.Errorf("Validate(array) error = %v, want nil", err)
	}
	if err := typ.Validate(identity[:12]); err == nil {
		t.Error("Validate should fail on 12 components")
	}
	if err := typ.Validate("identity"); err == nil {
		t.Error("Validate should fail on string")
	}
}

func TestSliceType(t *testing.T) {
	typ := Slice(Float())

	if typ.Name() != "[float]" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "[float]")
	}

	if err := typ.Validate([]float64{1, 2, 3}); err != nil {
		t.Errorf("Validate error = %v, want nil", err)
	}
	if err := typ.Validate([]any{1.0, "two"}); err == nil {
		t.Error("Validate should fail on mixed elements")
	}
}

func TestCustomType(t *testing.T) {
	typ := Custom("detail", func(v any) error {
		i, ok := v.(int)
		if !ok {
			return fmt.Errorf("expected int")
		}
		if i < 0 || i > 3 {
			return fmt.Errorf("out of range")
		}
		return nil
	})

	if err := typ.Validate(2); err != nil {
		t.Errorf("Validate(2) error = %v, want nil", err)
	}
	if err := typ.Validate(5); err == nil {
		t.Error("Validate(5) should fail")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"string", "string", false},
		{"float", "float", false},
		{"vec3", "vec3", false},
		{"mat4", "mat4", false},
		{"[int]", "[int]", false},
		{"[[string]]", "[[string]]", false},
		{"complex128", "", true},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && typ.Name() != tt.want {
			t.Errorf("ParseType(%q).Name() = %q, want %q", tt.in, typ.Name(), tt.want)
		}
	}
}
