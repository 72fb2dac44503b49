// Package config provides YAML-based configuration loading for gridsnake,
// with .env and environment-variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gridsnake/internal/registry"
	"github.com/vovakirdan/gridsnake/internal/snake"
)

// Config is the on-disk configuration. Zero values mean "use the variant's
// preset" for the simulation fields.
type Config struct {
	Variant string       `yaml:"variant"`
	Grid    GridConfig   `yaml:"grid"`
	Timing  TimingConfig `yaml:"timing"`
	Scoring *bool        `yaml:"scoring"`
	Log     LogConfig    `yaml:"log"`
	Server  ServerConfig `yaml:"server"`
}

// GridConfig defines the board and spawn parameters.
type GridConfig struct {
	Size          int `yaml:"size"`
	InitialLength int `yaml:"initial_length"`
}

// TimingConfig defines tick and debounce periods in milliseconds.
// A negative debounce disables it; zero keeps the variant's value.
type TimingConfig struct {
	TickMS     int `yaml:"tick_ms"`
	DebounceMS int `yaml:"debounce_ms"`
}

// LogConfig defines logging parameters.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ServerConfig defines the remote play listeners.
type ServerConfig struct {
	SSHAddr        string `yaml:"ssh_addr"`
	HTTPAddr       string `yaml:"http_addr"`
	HostKey        string `yaml:"host_key"`
	IdleTimeoutMin int    `yaml:"idle_timeout_min"`
}

// IdleTimeout returns the SSH idle timeout, defaulting to 30 minutes.
func (s ServerConfig) IdleTimeout() time.Duration {
	if s.IdleTimeoutMin <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.IdleTimeoutMin) * time.Minute
}

// Resolve looks up the configured variant and applies the overrides on top
// of its options. The result is validated.
func (c Config) Resolve() (registry.Variant, error) {
	id := c.Variant
	if id == "" {
		id = registry.DefaultVariant
	}

	v, err := registry.Get(id)
	if err != nil {
		return registry.Variant{}, fmt.Errorf("config: %w", err)
	}

	v.Options = c.apply(v.Options)
	if err := v.Options.Validate(); err != nil {
		return registry.Variant{}, fmt.Errorf("config: variant %q: %w", id, err)
	}
	return v, nil
}

func (c Config) apply(o snake.Options) snake.Options {
	if c.Grid.Size > 0 {
		o.GridSize = c.Grid.Size
	}
	if c.Grid.InitialLength > 0 {
		o.InitialLength = c.Grid.InitialLength
	}
	if c.Timing.TickMS > 0 {
		o.TickInterval = time.Duration(c.Timing.TickMS) * time.Millisecond
	}
	switch {
	case c.Timing.DebounceMS > 0:
		o.DirectionDebounce = time.Duration(c.Timing.DebounceMS) * time.Millisecond
	case c.Timing.DebounceMS < 0:
		o.DirectionDebounce = 0
	}
	if c.Scoring != nil {
		o.Scoring = *c.Scoring
	}
	return o
}
