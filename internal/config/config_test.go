package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	require.NoError(t, os.WriteFile(path, []byte("composition: DogStoryVideo\nformat: png\nworkers: 3\nto: 90\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "DogStoryVideo", cfg.Composition)
	assert.Equal(t, FormatPreview, cfg.Format)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 90, cfg.To)
	assert.Equal(t, 1, cfg.Every)
	assert.Equal(t, "output", cfg.OutputDir)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: gif\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative from", func(c *Config) { c.From = -1 }, true},
		{"empty range", func(c *Config) { c.From, c.To = 10, 10 }, true},
		{"zero every", func(c *Config) { c.Every = 0 }, true},
		{"scale too big", func(c *Config) { c.PreviewScale = 2 }, true},
		{"negative workers", func(c *Config) { c.Workers = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFrameRange(t *testing.T) {
	cfg := Default()
	from, to, err := cfg.FrameRange(450)
	require.NoError(t, err)
	assert.Equal(t, 0, from)
	assert.Equal(t, 450, to)

	cfg.From, cfg.To = 100, 1000
	from, to, err = cfg.FrameRange(450)
	require.NoError(t, err)
	assert.Equal(t, 100, from)
	assert.Equal(t, 450, to)

	cfg.From, cfg.To = 500, 0
	_, _, err = cfg.FrameRange(450)
	assert.Error(t, err)
}

func TestLoadProps(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "props.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("headline: Hi\nbulletPoints:\n  - a\n  - b\n"), 0644))
	props, err := LoadProps(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "Hi", props["headline"])
	assert.Equal(t, []any{"a", "b"}, props["bulletPoints"])

	jsonPath := filepath.Join(dir, "props.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"company":"Acme"}`), 0644))
	props, err = LoadProps(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Acme", props["company"])

	_, err = LoadProps(filepath.Join(dir, "props.txt"))
	assert.Error(t, err)
}
