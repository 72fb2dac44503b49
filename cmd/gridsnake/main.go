// gridsnake is a grid snake game for the terminal, SSH and websockets.
//
// Usage:
//
//	gridsnake list              - List available variants
//	gridsnake play              - Pick a variant from the menu and play
//	gridsnake play -v classic   - Play a variant directly
//	gridsnake serve             - Serve over SSH and websockets
//
// Global flags:
//
//	--config <path>  - YAML config (default: ~/.gridsnake/config.yaml)
//	--env <path>     - .env file with GRIDSNAKE_* overrides (default: ./.env)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridsnake/internal/config"
	"github.com/vovakirdan/gridsnake/internal/registry"
)

var (
	// Global flags
	flagConfig  string
	flagEnvFile string

	// Loaded in PersistentPreRunE
	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridsnake",
	Short: "Grid snake - eat, grow, don't hit the wall",
	Long: `gridsnake is a real-time snake game on a fixed grid. The snake moves
one cell per tick, grows when it eats and the run ends when it hits a
wall or itself.

Available commands:
  list     - Show all variants
  play     - Play in this terminal
  serve    - Serve over SSH and websockets

Examples:
  gridsnake list
  gridsnake play
  gridsnake play --variant classic
  gridsnake serve --ssh :2222 --http :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env", "", "Path to .env file (default: ./.env if present)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads YAML, then .env, then the process environment.
func loadConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return err
	}

	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&loaded, os.LookupEnv); err != nil {
		return err
	}
	cfg = loaded

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridsnake",
		Level:           level,
	})
	return nil
}

// resolveVariant applies the loaded overrides to the variant with the given
// ID. Both front ends use it so YAML and env settings reach every session.
func resolveVariant(id string) (registry.Variant, error) {
	c := cfg
	c.Variant = id
	return c.Resolve()
}
