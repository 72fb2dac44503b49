package snake

// Snapshot captures the controller state for determinism testing and replay.
type Snapshot struct {
	Tick     uint64
	Variant  string
	State    State
	Score    int
	TopScore int
	SnakeLen int
	HeadX    int
	HeadY    int
	Dir      Direction
	NextDir  Direction
	FoodX    int
	FoodY    int
}

// Snapshot returns the current controller snapshot.
func (c *Controller) Snapshot() Snapshot {
	headX, headY := 0, 0
	if len(c.model.Snake) > 0 {
		headX = c.model.Snake[0].X
		headY = c.model.Snake[0].Y
	}

	return Snapshot{
		Tick:     c.tick,
		Variant:  c.variant,
		State:    c.state,
		Score:    c.score,
		TopScore: c.topScore,
		SnakeLen: len(c.model.Snake),
		HeadX:    headX,
		HeadY:    headY,
		Dir:      c.model.Dir,
		NextDir:  c.nextDir,
		FoodX:    c.model.Food.X,
		FoodY:    c.model.Food.Y,
	}
}
