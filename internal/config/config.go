// Package config resolves where podote keeps its data and how it looks.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "podote"

	// FileName is the config file inside the config directory.
	FileName = "config.yaml"
)

// Backends understood by the CLI.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Environment overrides, applied over the config file.
const (
	EnvDataDir = "PODOTE_DATA_DIR"
	EnvBackend = "PODOTE_BACKEND"
)

// Config holds the settings read from config.yaml.
type Config struct {
	// DataDir holds todos.json or todos.sqlite. Empty means the working directory.
	DataDir string `yaml:"data_dir"`

	// Backend is "json" or "sqlite".
	Backend string `yaml:"backend"`

	// Theme is "classic", "neon" or "mono".
	Theme string `yaml:"theme"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{Backend: BackendJSON, Theme: "classic"}
}

// DefaultPath returns the config file location.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, FileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return filepath.Join(AppName, FileName)
	}
	return filepath.Join(home, ".config", AppName, FileName)
}

// Load reads path (DefaultPath when empty) over the defaults, then applies
// the environment overrides. A missing file is not an error. The result is
// not validated; callers apply their own overrides and then call Validate.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		cfg.Backend = v
	}
	return cfg, nil
}

// Validate normalizes names and rejects unknown backends.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendJSON
	}
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendJSON, BackendSQLite)
	}
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	return nil
}

// ResolveDataDir returns DataDir, or the working directory when it is unset.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return wd, nil
}

// Save writes c to path as YAML, creating the directory with mode 0700.
func (c Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
