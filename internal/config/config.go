// Package config manages global scriptty configuration.
//
// The config file is YAML at $SCRIPTTY_HOME/config.yaml, falling back to
// ~/.scriptty/config.yaml. Every field has a working default, so the file is
// optional.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the global scriptty configuration.
type Config struct {
	// Typing controls the simulated-typing timing for the type command.
	Typing TypingConfig `yaml:"typing"`

	// ExpectTimeout is the default timeout for expect lines that carry none.
	ExpectTimeout Duration `yaml:"expect_timeout"`

	// Grace is how long a run lingers after the last command so trailing
	// output can flush.
	Grace Duration `yaml:"grace"`

	// Rows and Cols set the default PTY geometry.
	Rows uint16 `yaml:"rows"`
	Cols uint16 `yaml:"cols"`

	// History controls the run log.
	History HistoryConfig `yaml:"history"`
}

// TypingConfig bounds the per-character delay of the type command.
type TypingConfig struct {
	MinDelay Duration `yaml:"min_delay"`
	MaxDelay Duration `yaml:"max_delay"`
}

// HistoryConfig controls whether and where runs are recorded.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Typing: TypingConfig{
			MinDelay: Duration(50 * time.Millisecond),
			MaxDelay: Duration(150 * time.Millisecond),
		},
		ExpectTimeout: Duration(5 * time.Second),
		Grace:         Duration(300 * time.Millisecond),
		Rows:          24,
		Cols:          80,
		History:       HistoryConfig{Enabled: true},
	}
}

// Home returns the scriptty home directory.
func Home() string {
	if home := os.Getenv("SCRIPTTY_HOME"); home != "" {
		return home
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scriptty"
	}
	return filepath.Join(homeDir, ".scriptty")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Home(), "config.yaml")
}

// Load reads the configuration from disk, returning defaults when no file
// exists.
func Load() (*Config, error) {
	return LoadAt(Path())
}

// LoadAt reads the configuration from an explicit path.
func LoadAt(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to disk atomically.
func (c *Config) Save() error {
	return c.SaveAt(Path())
}

// SaveAt writes the configuration to an explicit path atomically.
func (c *Config) SaveAt(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Typing.MinDelay < 0 || c.Typing.MaxDelay < 0 {
		return fmt.Errorf("typing delays must not be negative")
	}
	if c.Typing.MaxDelay < c.Typing.MinDelay {
		return fmt.Errorf("typing max_delay %v below min_delay %v",
			time.Duration(c.Typing.MaxDelay), time.Duration(c.Typing.MinDelay))
	}
	if c.ExpectTimeout <= 0 {
		return fmt.Errorf("expect_timeout must be positive")
	}
	return nil
}

// Duration is a time.Duration that round-trips through YAML as a string
// like "150ms" or "5s".
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}
