package snake

import "math/rand"

// maxResamples bounds the rejection loop before falling back to scanning
// the free cells. On a crowded board rejection sampling degrades badly.
const maxResamples = 64

// FoodPlacer chooses food cells that do not overlap the snake.
type FoodPlacer struct {
	rng *rand.Rand
}

// NewFoodPlacer creates a placer drawing from rng.
func NewFoodPlacer(rng *rand.Rand) *FoodPlacer {
	return &FoodPlacer{rng: rng}
}

// Place draws a uniformly random cell of a size×size grid that is not part
// of snake. It returns false when the snake covers the whole grid.
func (p *FoodPlacer) Place(snake []Cell, size int) (Cell, bool) {
	if size <= 0 || freeCells(snake, size) == 0 {
		return Cell{X: -1, Y: -1}, false
	}

	for range maxResamples {
		c := Cell{X: p.rng.Intn(size), Y: p.rng.Intn(size)}
		if !occupies(snake, c) {
			return c, true
		}
	}

	// Collect all empty cells
	taken := make(map[Cell]bool, len(snake))
	for _, seg := range snake {
		taken[seg] = true
	}
	empty := make([]Cell, 0, size*size-len(taken))
	for y := range size {
		for x := range size {
			c := Cell{X: x, Y: y}
			if !taken[c] {
				empty = append(empty, c)
			}
		}
	}
	return empty[p.rng.Intn(len(empty))], true
}

// freeCells counts grid cells not covered by the snake.
func freeCells(snake []Cell, size int) int {
	taken := make(map[Cell]struct{}, len(snake))
	for _, seg := range snake {
		if seg.X >= 0 && seg.X < size && seg.Y >= 0 && seg.Y < size {
			taken[seg] = struct{}{}
		}
	}
	return size*size - len(taken)
}
