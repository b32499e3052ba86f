package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the optional TOML file read by the command line tool
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
}

// PracticeConfig maps practice-related settings. Nil fields were not set.
type PracticeConfig struct {
	Min           *int    `toml:"min"`
	Max           *int    `toml:"max"`
	Decimal       *bool   `toml:"decimal"`
	DecimalPlaces *int    `toml:"decimal-places"`
	Difficulty    *string `toml:"difficulty"`
}

// LoadCLIDefaults reads a TOML config from the given path. A missing file is not an error.
func LoadCLIDefaults(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DefaultCLIConfigPath returns $XDG_CONFIG_HOME/zahlentrainer/config.toml
func DefaultCLIConfigPath() string {
	return filepath.Join(xdgConfigHome(), "zahlentrainer", "config.toml")
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}
