package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDSNAKE_"

// Load loads the gridsnake configuration.
// Search order: customPath -> ~/.gridsnake/config.yaml -> ./configs/snake.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/snake.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultSnakeYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gridsnake", filename)
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment without overriding variables that are already set. An empty
// path means ".env" in the working directory; a missing default file is
// not an error.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: cannot load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables. lookup is usually
// os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("VARIANT", &cfg.Variant)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("SSH_ADDR", &cfg.Server.SSHAddr)
	str("HTTP_ADDR", &cfg.Server.HTTPAddr)
	str("HOST_KEY", &cfg.Server.HostKey)

	for key, dst := range map[string]*int{
		"GRID_SIZE":        &cfg.Grid.Size,
		"INITIAL_LENGTH":   &cfg.Grid.InitialLength,
		"TICK_MS":          &cfg.Timing.TickMS,
		"DEBOUNCE_MS":      &cfg.Timing.DebounceMS,
		"IDLE_TIMEOUT_MIN": &cfg.Server.IdleTimeoutMin,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvPrefix + "SCORING"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sSCORING: %w", EnvPrefix, err)
		}
		cfg.Scoring = &b
	}

	return nil
}
