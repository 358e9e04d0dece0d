package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the optional per-project config the CLI looks for in the
// working directory.
const ProjectFile = "molstar.yaml"

// ProjectConfig carries project-level defaults for the CLI. Values act as
// flag defaults only: a flag given on the command line always wins.
type ProjectConfig struct {
	Script   string `yaml:"script"`    // default build script path
	Session  string `yaml:"session"`   // persist builds under this session
	RedisURL string `yaml:"redis_url"` // host:port; empty selects the file store
	StateDir string `yaml:"state_dir"` // file store directory
	StateKey string `yaml:"state_key"` // hex AES-256 key for snapshot encryption
	Quiet    bool   `yaml:"quiet"`
	Debug    bool   `yaml:"debug"`
}

// LoadProjectConfig reads the project config at path. A missing file is
// not an error; it simply contributes nothing.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ProjectConfig{}, nil
	}
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("failed to read project config: %w", err)
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
