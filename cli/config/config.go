package config

import (
	"fmt"
	"time"
)

// Config represents a sluice.yaml configuration file.
// All values are optional and act as defaults for sluice run flags.
// CLI flags always override config values.
type Config struct {
	Target         string        `yaml:"target"`
	BatchSize      int           `yaml:"batch_size"`
	MemoryBudgetMB uint64        `yaml:"memory_budget_mb"`
	DownloadDir    string        `yaml:"download_dir"`
	TickInterval   Duration      `yaml:"tick_interval"`
	ClientTimeout  Duration      `yaml:"client_timeout"`
	FrozenMemory   bool          `yaml:"frozen_memory"`
	Adapter        AdapterConfig `yaml:"adapter"`
}

// AdapterConfig holds completion adapter defaults from the config file.
// An empty Type disables publishing.
type AdapterConfig struct {
	Type    string            `yaml:"type"` // "webhook" or "redis"
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
