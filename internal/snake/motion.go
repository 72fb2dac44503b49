package snake

// MotionResult describes one step of the snake.
type MotionResult struct {
	NewHead Cell
	Ate     bool
}

// Advance moves the snake one cell in m.Dir. The new head is always
// prepended; the tail is dropped unless the head landed on the food.
// Replacing the food after a meal is the caller's job.
func Advance(m *Model) MotionResult {
	newHead := m.Head().Add(m.Dir)
	m.Snake = append(m.Snake, Cell{})
	copy(m.Snake[1:], m.Snake[:len(m.Snake)-1])
	m.Snake[0] = newHead

	if newHead == m.Food {
		return MotionResult{NewHead: newHead, Ate: true}
	}

	m.Snake = m.Snake[:len(m.Snake)-1]
	return MotionResult{NewHead: newHead}
}
