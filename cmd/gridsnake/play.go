package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/platform/tui"
	"github.com/vovakirdan/gridsnake/internal/registry"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

var (
	flagVariant string
	flagSeed    int64
	flagFPS     int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game in this terminal. Without --variant a menu lets you
pick one; finished runs are listed on the runs screen (Tab) until the
program exits.

Controls:
  Arrows/WASD  - Steer
  Enter/Space  - Start, play again
  B/Esc        - Back to the menu
  Q/Ctrl+C     - Quit

Examples:
  gridsnake play
  gridsnake play --variant classic
  gridsnake play --variant debounced --seed 42
  gridsnake play --config ./my-snake.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagVariant, "variant", "v", "", "Variant to play directly (skips the menu)")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed for food placement (0 = random)")
	playCmd.Flags().IntVar(&flagFPS, "fps", 60, "Render rate (frames per second)")
}

func runPlay(_ *cobra.Command, _ []string) {
	variant := cfg.Variant
	if flagVariant != "" {
		if !registry.Exists(flagVariant) {
			fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", flagVariant)
			fmt.Fprintln(os.Stderr, "Run 'gridsnake list' to see available variants.")
			os.Exit(1)
		}
		variant = flagVariant
	}
	if _, err := resolveVariant(variant); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// The ledger lives in memory for this process only.
	var ledger tui.Ledger
	store, err := storage.Open()
	if err != nil {
		logger.Warn("run ledger unavailable", "error", err)
	} else {
		defer store.Close()
		ledger = store.ForSession("local")
	}

	runErr := tui.Run(tui.AppOptions{
		Ledger: ledger,
		Config: core.RuntimeConfig{
			ScreenW: width,
			ScreenH: height,
			FPS:     flagFPS,
			Seed:    flagSeed,
		},
		Variant: variant,
		Direct:  flagVariant != "",
		Resolve: resolveVariant,
		Logger:  logger,
	})
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
