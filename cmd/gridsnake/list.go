package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridsnake/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all variants",
	Long:  `Shows every registered variant with its effective settings.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	variants := registry.List()

	if len(variants) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tTitle\tGrid\tTick\tDebounce\tDescription")
	fmt.Fprintln(w, "  --\t-----\t----\t----\t--------\t-----------")
	for _, v := range variants {
		o := v.Options
		if resolved, err := resolveVariant(v.ID); err == nil {
			o = resolved.Options
		}
		marker := ""
		if v.ID == cfg.Variant {
			marker = " (default)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%dx%d\t%s\t%s\t%s%s\n",
			v.ID, v.Title, o.GridSize, o.GridSize, o.TickInterval, o.DirectionDebounce, v.Description, marker)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Run 'gridsnake play --variant <id>' to play a variant.")
}
