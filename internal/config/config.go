// Package config holds jamtrace's user configuration: defaults for the
// trace file, dialect selection, and presentation. Loaded from a yaml file
// with environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that yaml-serializes in "500ms" notation
// rather than raw nanoseconds.
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// ColorMode controls when styled output is emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds all jamtrace configuration.
type Config struct {
	// Log is the default trace file to parse.
	Log string `yaml:"log"`

	// Dialects is the default dialect token string, one token per
	// character, e.g. "+5c".
	Dialects string `yaml:"dialects"`

	// Presentation settings for the shell and CLI output.
	Paging bool      `yaml:"paging"`
	Pager  string    `yaml:"pager"`
	Color  ColorMode `yaml:"color"`

	// Watch settings.
	WatchDebounce Duration `yaml:"watch_debounce"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Dialects:      "5",
		Paging:        false,
		Pager:         "less -R",
		Color:         ColorAuto,
		WatchDebounce: Duration(500 * time.Millisecond),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jamtrace.yaml"
	}
	return filepath.Join(home, ".jamtrace.yaml")
}

// Load reads the config file at path, applying defaults for anything not
// set and environment overrides on top. A missing file is not an error:
// defaults (plus overrides) are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies JAMTRACE_* environment variables on top of the
// file-based settings.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JAMTRACE_LOG"); v != "" {
		c.Log = v
	}
	if v := os.Getenv("JAMTRACE_DIALECTS"); v != "" {
		c.Dialects = v
	}
	if v := os.Getenv("JAMTRACE_PAGER"); v != "" {
		c.Pager = v
	}
	if v := os.Getenv("JAMTRACE_NO_COLOR"); v != "" {
		c.Color = ColorNever
	}
}

// Validate checks settings that would otherwise fail deep inside a
// command.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always, or never)", c.Color)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative")
	}
	return nil
}
