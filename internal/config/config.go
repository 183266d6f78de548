package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Zuo-Peng/chat-wrapped/internal/parse"
)

type Config struct {
	ExportRoot    string `toml:"export_root"`
	DBPath        string `toml:"db_path"`
	Timezone      string `toml:"timezone"`
	MaxFileSizeMB int    `toml:"max_file_size_mb"`
	MaxMessages   int    `toml:"max_messages"`

	// Rules replaces the built-in classification table when either list is set.
	Rules parse.Rules `toml:"rules"`
}

// Load reads ~/.config/cw/config.toml on top of the defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(home, ".config", "cw", "config.toml"), home)
}

// LoadFile is Load with an explicit config path; a missing file is not an error.
func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		ExportRoot:    filepath.Join(home, "chat-exports"),
		DBPath:        filepath.Join(home, ".config", "cw", "cw.db"),
		Timezone:      "Local",
		MaxFileSizeMB: 10,
		MaxMessages:   100000,
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ExportRoot = expandHome(cfg.ExportRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone; empty and "Local" mean the machine zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseRules returns the configured table, or the defaults if none is set.
func (c *Config) ParseRules() parse.Rules {
	if len(c.Rules.SystemPhrases) == 0 && len(c.Rules.Media) == 0 {
		return parse.DefaultRules()
	}
	return c.Rules
}

func (c *Config) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
