package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/justapithecus/sluice/fetch"
)

// Load reads a sluice.yaml file, expands environment variables, and decodes
// it strictly: unknown keys are rejected so a typoed tunable fails loudly
// instead of silently falling back to a default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(strings.NewReader(ExpandEnv(string(data))))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// validate rejects values no session could run with. Zero values mean
// "unset" and are allowed; flags and session defaults fill them later.
func (c *Config) validate() error {
	if c.Target != "" {
		if err := fetch.ValidateTarget(c.Target); err != nil {
			return err
		}
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must be >= 0, got %d", c.BatchSize)
	}
	if c.TickInterval.Duration < 0 {
		return fmt.Errorf("tick_interval must not be negative, got %s", c.TickInterval.Duration)
	}
	if c.ClientTimeout.Duration < 0 {
		return fmt.Errorf("client_timeout must not be negative, got %s", c.ClientTimeout.Duration)
	}

	switch c.Adapter.Type {
	case "", "webhook", "redis":
	default:
		return fmt.Errorf("adapter type %q unknown (must be webhook or redis)", c.Adapter.Type)
	}
	if c.Adapter.Retries != nil && *c.Adapter.Retries < 0 {
		return fmt.Errorf("adapter retries must be >= 0, got %d", *c.Adapter.Retries)
	}
	return nil
}
