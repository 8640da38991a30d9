// Package config loads the lumen CLI configuration from TOML. Everything has
// a working default; a config file is optional.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Log controls the emit side.
type Log struct {
	// Level is the minimum severity. Unrecognized values suppress nothing;
	// losing all output to a typo is worse than extra noise.
	Level      string `toml:"level"`
	Timestamps bool   `toml:"timestamps"`
	// File, when set, appends records there instead of stdout.
	File string `toml:"file"`
}

// Pretty controls the decode side.
type Pretty struct {
	// Color is one of auto, always, never.
	Color      string `toml:"color"`
	ChunkBytes int    `toml:"chunk_bytes"`
}

// Config encapsulates all lumen settings.
type Config struct {
	Log    Log    `toml:"log"`
	Pretty Pretty `toml:"pretty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: Log{
			Level:      "trace",
			Timestamps: true,
		},
		Pretty: Pretty{
			Color:      "auto",
			ChunkBytes: 4096,
		},
	}
}

// Sample returns the annotated sample configuration file.
func Sample() string {
	return sampleConfig
}

// DefaultConfigPath returns where Load looks when no path is given.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/lumen/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path, and whether a file existed there. A missing file
// yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Pretty.Color = strings.ToLower(strings.TrimSpace(c.Pretty.Color))
	if c.Pretty.Color == "" {
		c.Pretty.Color = "auto"
	}
	if c.Pretty.ChunkBytes == 0 {
		c.Pretty.ChunkBytes = Default().Pretty.ChunkBytes
	}

	if c.Log.File != "" {
		expanded, err := ExpandPath(c.Log.File)
		if err != nil {
			return err
		}
		c.Log.File = expanded
	}
	return nil
}

// Validate rejects values the CLI cannot act on. Log levels are deliberately
// not validated here.
func (c *Config) Validate() error {
	switch c.Pretty.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("pretty.color: unsupported value %q (want auto, always, or never)", c.Pretty.Color)
	}
	if c.Pretty.ChunkBytes < 0 {
		return fmt.Errorf("pretty.chunk_bytes: must not be negative, got %d", c.Pretty.ChunkBytes)
	}
	return nil
}

// ExpandPath resolves a leading ~ against the current user's home directory.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
