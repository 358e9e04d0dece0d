package dto

// BuildScript is the YAML face of a reproducible tree build. It uses
// "yaml" tags to match the keys a script author writes (ref, parent,
// transformer).
type BuildScript struct {
	Name  string      `json:"name" yaml:"name"`
	Steps []BuildStep `json:"steps" yaml:"steps"`
}

// BuildStep describes one transform in a build script. Parent and Ref are
// optional: an omitted parent chains the step under the previous one, an
// omitted ref is generated at compile time.
type BuildStep struct {
	Ref         string         `json:"ref" yaml:"ref"`
	Parent      string         `json:"parent" yaml:"parent"`
	Transformer string         `json:"transformer" yaml:"transformer"`
	Params      map[string]any `json:"params" yaml:"params"`
	Tags        []string       `json:"tags" yaml:"tags"`
}
