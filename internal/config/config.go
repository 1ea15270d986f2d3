// Package config loads lec-results configuration from YAML.
//
// Running without a config file is supported: Default returns settings for the public match-history
// site rendered in a local headless Chrome. Values present in the file override the defaults and
// CLI flags override both.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pfrederiksen/lec-results/internal/logger"
	"github.com/pfrederiksen/lec-results/internal/match"
	"github.com/pfrederiksen/lec-results/internal/scraper"
	"github.com/pfrederiksen/lec-results/internal/session"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidEngine      = errors.New("browser.engine must be 'chrome' or 'http'")
	ErrInvalidWindowSize  = errors.New("browser.window_width and browser.window_height must be non-negative")
	ErrInvalidTimeout     = errors.New("browser.timeout_sec must be non-negative")
	ErrRemoteWithExecPath = errors.New("browser.remote_url and browser.exec_path are mutually exclusive")
	ErrMissingSelector    = errors.New("all selectors are required")
	ErrInvalidDateFormat  = errors.New("date_format is not a supported pattern")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete configuration
type Config struct {
	Browser    session.Options   `yaml:"browser"`
	Selectors  scraper.Selectors `yaml:"selectors"`
	DateFormat string            `yaml:"date_format"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Browser:    session.DefaultOptions(),
		Selectors:  scraper.DefaultSelectors(),
		DateFormat: match.DefaultDateFormat,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file layered over Default.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the extractors and sessions cannot work with
func (c *Config) Validate() error {
	switch c.Browser.Engine {
	case session.EngineChrome, session.EngineHTTP:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidEngine, c.Browser.Engine)
	}

	if c.Browser.WindowWidth < 0 || c.Browser.WindowHeight < 0 {
		return ErrInvalidWindowSize
	}

	if c.Browser.TimeoutSec < 0 {
		return ErrInvalidTimeout
	}

	if c.Browser.RemoteURL != "" && c.Browser.ExecPath != "" {
		return ErrRemoteWithExecPath
	}

	selectors := map[string]string{
		"ready":      c.Selectors.Ready,
		"markers":    c.Selectors.Markers,
		"nameplates": c.Selectors.Nameplates,
		"date":       c.Selectors.Date,
	}
	for name, sel := range selectors {
		if sel == "" {
			return fmt.Errorf("%w: selectors.%s is empty", ErrMissingSelector, name)
		}
	}

	if _, err := match.Layout(c.DateFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return ErrInvalidLogLevel
	}

	return nil
}
