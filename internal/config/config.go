// Package config loads the optional ownck.toml tool configuration.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrBadColorMode indicates an unsupported [check].color value.
var ErrBadColorMode = errors.New(`color must be "auto", "on" or "off"`)

// Check holds the [check] section.
type Check struct {
	MaxDiagnostics int    `toml:"max-diagnostics"`
	Jobs           int    `toml:"jobs"`
	Color          string `toml:"color"`
	Timings        bool   `toml:"timings"`
}

// Config is the full tool configuration.
type Config struct {
	Check Check `toml:"check"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Check: Check{
			MaxDiagnostics: 100,
			Jobs:           0, // 0 = GOMAXPROCS
			Color:          "auto",
		},
	}
}

// Load parses path, filling omitted fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("check") {
		return cfg, nil
	}
	switch cfg.Check.Color {
	case "auto", "on", "off":
	default:
		return Config{}, fmt.Errorf("%s: %w", path, ErrBadColorMode)
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: max-diagnostics must not be negative", path)
	}
	return cfg, nil
}
