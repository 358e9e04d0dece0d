package domain

import "github.com/google/uuid"

// Ref identifies a cell in the state tree. Refs are stable across updates
// and snapshots; only removing the cell retires its ref.
type Ref string

// RootRef is the ref of the implicit root cell every tree starts with.
const RootRef Ref = "-=root=-"

// NewRef generates a fresh unique ref for a transform.
func NewRef() Ref {
	return Ref(uuid.NewString())
}

// Object is the result a transformer produced: a typed payload plus the
// human-readable labels shown in tree views.
type Object struct {
	Payload     Payload
	Label       string
	Description string
}

// NewObject wraps a payload with a label.
func NewObject(p Payload, label string) *Object {
	return &Object{Payload: p, Label: label}
}

// Null produces the empty terminal object. Cells holding it are in the
// "ok" state; their children simply have nothing to work on.
func Null(label string) *Object {
	if label == "" {
		label = "<null>"
	}
	return &Object{Payload: NullPayload{}, Label: label}
}

// Kind returns the payload kind, or KindNull for a nil object.
func (o *Object) Kind() Kind {
	if o == nil || o.Payload == nil {
		return KindNull
	}
	return o.Payload.Kind()
}

// IsNull reports whether the object is the empty terminal.
func (o *Object) IsNull() bool {
	return o.Kind() == KindNull
}
