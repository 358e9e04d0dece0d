package compiler

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/qqdb/molstar/internal/dto"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/dsl"
)

// Compiler is responsible for converting build scripts into snapshots.
type Compiler struct{}

// NewCompiler creates a new compiler instance.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Parse takes raw YAML content and tries to decode it into a build script.
func (c *Compiler) Parse(data []byte) (*dto.BuildScript, error) {
	var script dto.BuildScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse build script: %w", err)
	}
	// Basic validation
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("build script has no steps")
	}
	return &script, nil
}

// Compile turns a build script into a validated snapshot. Steps without a
// parent chain under the previous step; "root" (or the literal root ref)
// attaches at the tree root; anything else must name an earlier step's ref.
func (c *Compiler) Compile(script *dto.BuildScript) (domain.Snapshot, error) {
	b := dsl.New(dsl.WithName(script.Name))
	named := make(map[string]dsl.Step)
	prev := b.Root()

	for i, raw := range script.Steps {
		if raw.Transformer == "" {
			return domain.Snapshot{}, fmt.Errorf("step %d: missing transformer", i+1)
		}

		parent := prev
		switch raw.Parent {
		case "":
			// Chain under the previous step.
		case "root", string(domain.RootRef):
			parent = b.Root()
		default:
			h, ok := named[raw.Parent]
			if !ok {
				return domain.Snapshot{}, fmt.Errorf("step %d: parent %q does not name an earlier step", i+1, raw.Parent)
			}
			parent = h
		}

		st := parent.Apply(raw.Transformer)
		if raw.Ref != "" {
			st.Ref(domain.Ref(raw.Ref))
			named[raw.Ref] = st
		}
		if len(raw.Params) > 0 {
			st.Params(raw.Params)
		}
		if len(raw.Tags) > 0 {
			st.Tag(raw.Tags...)
		}
		prev = st
	}

	return b.Build()
}

// CompileBytes parses and compiles in one call, for callers holding a
// script file's raw content.
func (c *Compiler) CompileBytes(data []byte) (domain.Snapshot, error) {
	script, err := c.Parse(data)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return c.Compile(script)
}
