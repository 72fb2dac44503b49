// Package registry holds the named variants of the snake game. Each variant
// is a preset of snake.Options; the CLI, the TUI menu and the servers look
// variants up by ID instead of hardcoding option sets.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/gridsnake/internal/snake"
)

// Variant describes a registered preset.
type Variant struct {
	ID          string
	Title       string
	Description string
	Options     snake.Options
}

// DefaultVariant is used when no variant is selected.
const DefaultVariant = "debounced"

var (
	variants = make(map[string]Variant)
	mu       sync.RWMutex
)

func init() {
	classic := snake.DefaultOptions()
	classic.DirectionDebounce = 0
	classic.Scoring = false
	Register(Variant{
		ID:          "classic",
		Title:       "Classic",
		Description: "No score, no turn debounce",
		Options:     classic,
	})

	scored := snake.DefaultOptions()
	scored.DirectionDebounce = 0
	Register(Variant{
		ID:          "scored",
		Title:       "Scored",
		Description: "Score and top score, no turn debounce",
		Options:     scored,
	})

	Register(Variant{
		ID:          "debounced",
		Title:       "Debounced",
		Description: "Scoring with a 100ms guard between turns",
		Options:     snake.DefaultOptions(),
	})

	tiny := snake.DefaultOptions()
	tiny.InitialLength = 1
	Register(Variant{
		ID:          "tiny",
		Title:       "Hatchling",
		Description: "Spawns as a single segment",
		Options:     tiny,
	})
}

// Register adds a variant to the registry.
// Panics if the ID is taken or the options are invalid.
func Register(v Variant) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := variants[v.ID]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", v.ID))
	}
	if err := v.Options.Validate(); err != nil {
		panic(fmt.Sprintf("registry: variant %q: %v", v.ID, err))
	}

	variants[v.ID] = v
}

// List returns all registered variants, sorted by ID.
func List() []Variant {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Variant, 0, len(variants))
	for _, v := range variants {
		result = append(result, v)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get looks up a variant by ID.
// Returns an error if the ID is not registered.
func Get(id string) (Variant, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := variants[id]
	if !ok {
		return Variant{}, fmt.Errorf("registry: unknown variant %q", id)
	}
	return v, nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := variants[id]
	return ok
}
