// Package config holds the settings of a render run and loads them, together
// with composition props, from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats of a render run.
const (
	FormatJSONL   = "jsonl"
	FormatYAML    = "yaml"
	FormatPreview = "png"
)

type Config struct {
	Composition  string  `yaml:"composition"`
	PropsPath    string  `yaml:"props"`
	OutputDir    string  `yaml:"output_dir"`
	Format       string  `yaml:"format"`
	From         int     `yaml:"from"`
	To           int     `yaml:"to"` // Exclusive; 0 means the end of the composition
	Every        int     `yaml:"every"`
	Workers      int     `yaml:"workers"`
	PreviewScale float64 `yaml:"preview_scale"`
	AssetsDir    string  `yaml:"assets_dir"` // Local pictures for previews, matched by file name
	Debug        bool    `yaml:"debug"`
	ShowStats    bool    `yaml:"show_stats"`
	LogLevel     string  `yaml:"log_level"`
	MetricsAddr  string  `yaml:"metrics_addr"`
	BuildVersion string  `yaml:"-"`
}

// Default returns the settings used when neither a file nor a flag sets
// a value.
func Default() Config {
	return Config{
		OutputDir:    "output",
		Format:       FormatJSONL,
		Every:        1,
		PreviewScale: 0.25,
		LogLevel:     "info",
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that flags and files can get wrong.
func (c Config) Validate() error {
	switch c.Format {
	case FormatJSONL, FormatYAML, FormatPreview:
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", c.Format, FormatJSONL, FormatYAML, FormatPreview)
	}
	if c.From < 0 {
		return fmt.Errorf("from must not be negative, got %d", c.From)
	}
	if c.To != 0 && c.To <= c.From {
		return fmt.Errorf("empty frame range [%d, %d)", c.From, c.To)
	}
	if c.Every <= 0 {
		return fmt.Errorf("every must be positive, got %d", c.Every)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.PreviewScale <= 0 || c.PreviewScale > 1 {
		return fmt.Errorf("preview scale must be in (0, 1], got %g", c.PreviewScale)
	}
	return nil
}

// FrameRange resolves the configured range against a composition length.
func (c Config) FrameRange(duration int) (from, to int, err error) {
	to = c.To
	if to == 0 || to > duration {
		to = duration
	}
	if c.From >= to {
		return 0, 0, fmt.Errorf("frame range [%d, %d) is empty for a %d-frame composition", c.From, to, duration)
	}
	return c.From, to, nil
}

// LoadProps reads composition props from a .json, .yaml or .yml file.
func LoadProps(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	props := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &props)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &props)
	default:
		return nil, fmt.Errorf("props file %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse props %s: %w", path, err)
	}
	return props, nil
}
