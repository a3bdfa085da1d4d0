package analyzer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up at the workspace root.
const ConfigFileName = "archmap.yaml"

// Config is the optional per-workspace configuration. All fields are
// optional; zero values mean "use the default".
type Config struct {
	// Exclude holds doublestar glob patterns for paths to treat as
	// third-party regardless of location.
	Exclude []string `yaml:"exclude"`
	// Include holds path prefixes forced to app classification, letting a
	// repo rescue a vendored directory it actively maintains.
	Include []string `yaml:"include"`
	// HubLimit caps the hub list.
	HubLimit int `yaml:"hub_limit"`
	// HighInDegree overrides the high-risk in-degree threshold.
	HighInDegree int `yaml:"high_in_degree"`
	// Concurrency bounds simultaneous file reads.
	Concurrency int `yaml:"concurrency"`
}

// LoadConfig reads archmap.yaml from root. A missing file is not an error;
// the zero Config is returned so every knob falls back to its default.
func LoadConfig(root string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(filepath.Join(root, ConfigFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}
	return cfg, nil
}
