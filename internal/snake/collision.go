package snake

// CollisionResult reports the terminal conditions found after a move.
type CollisionResult struct {
	Wall bool
	Self bool
}

// Terminal reports whether either condition ends the run.
func (r CollisionResult) Terminal() bool {
	return r.Wall || r.Self
}

// Check evaluates the head against the grid bounds and the rest of the body.
// It must run after Advance for the current tick.
func Check(m *Model) CollisionResult {
	head := m.Head()
	return CollisionResult{
		Wall: !m.InBounds(head),
		Self: occupies(m.Snake[1:], head),
	}
}
