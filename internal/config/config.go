package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/sawpanic/sparkline/internal/series"
)

// Config is the control-layer configuration for a sparkline instance.
// The core takes these as plain scalars; this struct only exists so the
// driver binary can load them from YAML.
type Config struct {
	Capacity  int      `yaml:"capacity"`
	Threshold *float64 `yaml:"threshold,omitempty"`

	Display DisplayConfig `yaml:"display"`
	Feed    FeedConfig    `yaml:"feed"`

	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// DisplayConfig holds renderer toggles passed through to the UI layer.
type DisplayConfig struct {
	ShowStatistics bool `yaml:"show_statistics"`
	ShowThreshold  bool `yaml:"show_threshold"`
}

// FeedConfig paces the synthetic sample feed in the demo binary.
type FeedConfig struct {
	IntervalMs int     `yaml:"interval_ms"`
	Jitter     float64 `yaml:"jitter"`
}

// Interval converts the configured milliseconds to a duration.
func (f FeedConfig) Interval() time.Duration {
	return time.Duration(f.IntervalMs) * time.Millisecond
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Capacity: series.DefaultCapacity,
		Display: DisplayConfig{
			ShowStatistics: true,
			ShowThreshold:  true,
		},
		Feed: FeedConfig{
			IntervalMs: 250,
			Jitter:     1.0,
		},
	}
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.Validate()
	return &cfg, nil
}

// Validate clamps out-of-range settings instead of failing; a display
// control should come up with usable defaults rather than refuse to
// start.
func (c *Config) Validate() {
	if c.Capacity < series.MinCapacity {
		c.Capacity = series.MinCapacity
	}
	if c.Capacity > series.MaxCapacity {
		c.Capacity = series.MaxCapacity
	}
	if c.Feed.IntervalMs <= 0 {
		c.Feed.IntervalMs = 250
	}
	if c.Feed.Jitter < 0 {
		c.Feed.Jitter = 0
	}
}

// ThresholdValue returns the configured threshold, or NaN when unset,
// matching the series' unset sentinel.
func (c *Config) ThresholdValue() float64 {
	if c.Threshold == nil {
		return math.NaN()
	}
	return *c.Threshold
}
