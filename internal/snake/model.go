// Package snake implements the grid snake simulation: the grid model, food
// placement, motion, collision detection and the controller state machine.
// It has no terminal or network dependencies; adapters live under
// internal/platform.
package snake

import (
	"fmt"
	"strings"
)

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Add returns the neighbouring cell one step in direction d.
func (c Cell) Add(d Direction) Cell {
	dx, dy := d.Vector()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction represents the snake's movement direction.
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up
)

// Vector returns the unit step for the direction.
// Y grows downwards, matching screen coordinates.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Up:
		return 0, -1
	}
	return 0, 0
}

// Opposite returns the inverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Right:
		return Left
	case Left:
		return Right
	case Up:
		return Down
	case Down:
		return Up
	}
	return d
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Right && d <= Up
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts "up", "down", "left" or "right" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("snake: unknown direction %q", s)
}

// Model is the grid state shared by the engine functions.
// Snake[0] is the head; the slice is never empty once a run has started.
type Model struct {
	Size  int
	Snake []Cell
	Food  Cell
	Dir   Direction
}

// Head returns the first snake cell.
func (m *Model) Head() Cell {
	return m.Snake[0]
}

// Occupies reports whether any snake cell equals c.
func (m *Model) Occupies(c Cell) bool {
	return occupies(m.Snake, c)
}

// InBounds reports whether c lies on the grid.
func (m *Model) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < m.Size && c.Y >= 0 && c.Y < m.Size
}

// Clone returns a deep copy; the snake slice is not shared.
func (m *Model) Clone() Model {
	out := *m
	out.Snake = append([]Cell(nil), m.Snake...)
	return out
}

func occupies(snake []Cell, c Cell) bool {
	for _, seg := range snake {
		if seg == c {
			return true
		}
	}
	return false
}
