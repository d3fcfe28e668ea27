package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is an optional YAML file mirroring the per-run flags below;
// any field left zero keeps the flag (or its default) instead. A plain
// exported-field struct with yaml tags, loaded with yaml.Unmarshal and
// validated by the caller rather than a schema library.
type RunConfig struct {
	Train     string  `yaml:"train"`
	Test      string  `yaml:"test"`
	Target    string  `yaml:"target"`
	SVMLight  bool    `yaml:"svmlight"`
	LogCSV    string  `yaml:"log_csv"`
	TimeLimit string  `yaml:"time_limit"`
	Tolerance float64 `yaml:"tolerance"`
	Nu        float64 `yaml:"nu"`
	Gamma     float64 `yaml:"gamma"`
	Loss      string  `yaml:"loss"`
	MaxDepth  int     `yaml:"max_depth"`
	Criterion string  `yaml:"criterion"`
	// HasHeader is a pointer so an absent key keeps the flag's value
	// rather than forcing the zero (headerless) reading.
	HasHeader *bool `yaml:"has_header"`
}

// LoadRunConfig reads and parses a YAML run configuration. An empty path
// is not an error: callers fall back to flags entirely.
func LoadRunConfig(path string) (*RunConfig, error) {
	if path == "" {
		return &RunConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cmd: reading config %q: %w", path, err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cmd: parsing config %q: %w", path, err)
	}
	return &cfg, nil
}

// overrideString returns cfgVal if it is non-empty, else flagVal.
func overrideString(flagVal, cfgVal string) string {
	if cfgVal != "" {
		return cfgVal
	}
	return flagVal
}

// overrideFloat returns cfgVal if it is non-zero, else flagVal.
func overrideFloat(flagVal, cfgVal float64) float64 {
	if cfgVal != 0 {
		return cfgVal
	}
	return flagVal
}

// overrideInt returns cfgVal if it is non-zero, else flagVal.
func overrideInt(flagVal, cfgVal int) int {
	if cfgVal != 0 {
		return cfgVal
	}
	return flagVal
}
