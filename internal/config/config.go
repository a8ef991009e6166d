// Package config loads statbook settings from STATBOOK_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const prefix = "statbook"

type Config struct {
	DB       string `envconfig:"DB" default:"statbook.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	Format   string `envconfig:"FORMAT" default:"text"`
	Periods  int    `envconfig:"PERIODS" default:"4"`
}

// New reads the environment and validates the result.
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process(prefix, &c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the CLI cannot use.
func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("config: STATBOOK_DB must not be empty")
	}
	if c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("config: STATBOOK_FORMAT must be text or json, got %q", c.Format)
	}
	if c.Periods < 1 {
		return fmt.Errorf("config: STATBOOK_PERIODS must be at least 1, got %d", c.Periods)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: STATBOOK_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
