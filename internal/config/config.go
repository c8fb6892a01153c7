// Package config loads the engine's compile-time parameters from a YAML
// file, the same small-config idiom used elsewhere for KISS and TNC
// settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kf0lvi/pario32/internal/engine"
)

// File is the on-disk shape of a config file. Zero fields fall back to
// engine.DefaultConfig's values.
type File struct {
	OversampleRate int `yaml:"oversample_rate"`
	WheelSize      int `yaml:"wheel_size"`
	OffsetStart    int `yaml:"offset_start"`
	OffsetNextBit  int `yaml:"offset_next_bit"`
	Channels       int `yaml:"channels"`
}

// Load reads and validates a config file at path, returning an
// engine.Config ready to pass to engine.New. An empty path returns the
// defaults.
func Load(path string) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return engine.Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyOverrides(&cfg, f)

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func applyOverrides(cfg *engine.Config, f File) {
	if f.OversampleRate != 0 {
		cfg.OversampleRate = f.OversampleRate
	}
	if f.WheelSize != 0 {
		cfg.WheelSize = f.WheelSize
	}
	if f.OffsetStart != 0 {
		cfg.OffsetStart = f.OffsetStart
	}
	if f.OffsetNextBit != 0 {
		cfg.OffsetNextBit = f.OffsetNextBit
	}
	if f.Channels != 0 {
		cfg.Channels = f.Channels
	}
}
