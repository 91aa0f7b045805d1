// Package config loads the arbor process configuration.
//
// Config file locations (priority order):
//  1. the --config flag
//  2. $ARBOR_CONFIG
//  3. ./arbor.yaml
//
// Without a file the defaults apply.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "ARBOR_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "arbor.yaml"
)

// ErrInvalid is returned for config values that cannot be used.
var ErrInvalid = errors.New("arbor: invalid config")

// Config is the process configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Seed is a YAML dataset path. Empty uses the built-in dataset.
	Seed string `yaml:"seed"`

	// ShutdownTimeout bounds graceful shutdown of the server and bus.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Bus     BusConfig     `yaml:"bus"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// BusConfig configures the notification bus.
type BusConfig struct {
	Buffer int `yaml:"buffer"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Listen:          ":8080",
		ShutdownTimeout: 10 * time.Second,
		Log:             LogConfig{Level: "info", Format: "text"},
		Metrics:         MetricsConfig{Enabled: true, Path: "/metrics"},
		Bus:             BusConfig{Buffer: 16},
	}
}

// FindConfigPath returns $ARBOR_CONFIG or ./arbor.yaml when the file
// exists, and "" otherwise.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if fileExists(ConfigFileName) {
		return ConfigFileName
	}
	return ""
}

// Load loads the config at path, or at FindConfigPath when path is empty.
// It returns the path actually used, "" for defaults.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindConfigPath()
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Keys missing from the
// file keep their default values.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// applyDefaults fills in values explicitly emptied in the file.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q: %w", c.Log.Format, ErrInvalid)
	}
	if c.Bus.Buffer < 0 {
		return fmt.Errorf("bus buffer %d: %w", c.Bus.Buffer, ErrInvalid)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics path %q: %w", c.Metrics.Path, ErrInvalid)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.Log.Level, ErrInvalid)
	}
	return level, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
