package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// Default returns the hardcoded configuration, matching defaults/snake.yaml.
// Simulation fields are left to the variant.
func Default() Config {
	return Config{
		Variant: "debounced",
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			SSHAddr:        ":23234",
			HTTPAddr:       ":8080",
			IdleTimeoutMin: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
