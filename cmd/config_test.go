package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunConfig_EmptyPathYieldsZeroConfig(t *testing.T) {
	cfg, err := LoadRunConfig("")
	require.NoError(t, err)
	assert.Equal(t, &RunConfig{}, cfg)
}

func TestLoadRunConfig_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := "train: data.csv\ntolerance: 0.05\nnu: 2\nhas_header: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data.csv", cfg.Train)
	assert.Equal(t, 0.05, cfg.Tolerance)
	assert.Equal(t, 2.0, cfg.Nu)
	require.NotNil(t, cfg.HasHeader)
	assert.False(t, *cfg.HasHeader)
}

func TestApplyConfig_ConfigOverridesFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := "train: from-config.csv\ntime_limit: 30s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cf := commonFlags{
		train:     "from-flag.csv",
		target:    "y",
		hasHeader: true,
		config:    path,
	}
	cfg, err := cf.applyConfig()
	require.NoError(t, err)

	// Set config fields win; unset ones keep the flag values.
	assert.Equal(t, "from-config.csv", cf.train)
	assert.Equal(t, "30s", cf.timeLimit)
	assert.Equal(t, "y", cf.target)
	assert.True(t, cf.hasHeader)
	assert.Zero(t, cfg.Tolerance)
}

func TestOverrideHelpers(t *testing.T) {
	assert.Equal(t, "cfg", overrideString("flag", "cfg"))
	assert.Equal(t, "flag", overrideString("flag", ""))
	assert.Equal(t, 0.5, overrideFloat(0.1, 0.5))
	assert.Equal(t, 0.1, overrideFloat(0.1, 0))
	assert.Equal(t, 7, overrideInt(3, 7))
	assert.Equal(t, 3, overrideInt(3, 0))
}
