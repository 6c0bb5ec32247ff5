// Package config loads tracker settings from a TOML file. Every field has a
// working default so a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// HistoryDir is the directory the card-room client writes hand-history
	// files into.
	HistoryDir string `toml:"history_dir"`
	// DatabasePath is the sqlite file holding hands and aggregates.
	DatabasePath string `toml:"database_path"`
	// HeroName is the account whose stats the CLI shows by default.
	HeroName string `toml:"hero_name"`
	// Workers bounds the parallel hand parse. Zero means one per CPU.
	Workers int `toml:"workers"`
	Debug   bool `toml:"debug"`
}

func Default() Config {
	return Config{
		DatabasePath: "pokertracker.db",
		Workers:      runtime.GOMAXPROCS(0),
	}
}

// Load reads the config file at path, or the defaults when path is empty or
// the file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg, nil
}

// DefaultPath is the per-user config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pokertracker.toml"
	}
	return filepath.Join(dir, "pokertracker", "config.toml")
}
