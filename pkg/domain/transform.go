package domain

// Transform is the serializable record of one transform application: which
// transformer, applied to which parent, with which parameters. The state
// tree is entirely described by its transforms; objects are derived and
// never serialized.
type Transform struct {
	Ref    Ref `json:"ref" yaml:"ref"`
	Parent Ref `json:"parent" yaml:"parent"`

	// Transformer is the registered name, e.g. "download" or
	// "volume-from-ccp4".
	Transformer string `json:"transformer" yaml:"transformer"`

	// Params are the transformer parameters after defaulting, as validated
	// by the transformer's schema.
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`

	// Tags allow callers to find cells without holding refs.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// HasTag reports whether the transform carries the given tag.
func (t Transform) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// RootTransform is the synthetic record of the tree root. It has no parent
// and no transformer; the runtime materializes it directly.
func RootTransform() Transform {
	return Transform{Ref: RootRef}
}

// IsRoot reports whether this is the synthetic root record.
func (t Transform) IsRoot() bool {
	return t.Ref == RootRef
}
