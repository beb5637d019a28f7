package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// shellConfig holds defaults read from ~/.kuzush.toml. Command-line
// flags override config values, which override the built-in defaults.
type shellConfig struct {
	// Format is the default output format: "table" or "json".
	Format string `toml:"format"`
	// Timer prints query execution time after every statement.
	Timer bool `toml:"timer"`
	// ReadOnly opens databases in read-only mode.
	ReadOnly bool `toml:"read_only"`
	// TimeoutMS aborts queries running longer than this. Zero disables.
	TimeoutMS int64 `toml:"timeout_ms"`
}

func defaultShellConfig() shellConfig {
	return shellConfig{Format: "table"}
}

// defaultConfigPath returns ~/.kuzush.toml, or "" when the home
// directory cannot be determined.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kuzush.toml")
}

// loadShellConfig reads the config file at path. A missing file is not
// an error; the built-in defaults are returned.
func loadShellConfig(path string) (shellConfig, error) {
	cfg := defaultShellConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Format != "table" && cfg.Format != "json" {
		return cfg, fmt.Errorf("%s: format must be \"table\" or \"json\", got %q", path, cfg.Format)
	}
	if cfg.TimeoutMS < 0 {
		return cfg, fmt.Errorf("%s: timeout_ms must not be negative", path)
	}
	return cfg, nil
}
