package snake

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOptions is wrapped by every Options validation failure.
var ErrInvalidOptions = errors.New("snake: invalid options")

// Options are the behaviour toggles of a run.
type Options struct {
	GridSize          int           // Cells per side
	InitialLength     int           // Snake length after reset
	Scoring           bool          // Count food eaten into Score/TopScore
	DirectionDebounce time.Duration // Minimum gap between accepted turns; 0 disables
	TickInterval      time.Duration // Simulation step period used by tick sources
}

// DefaultOptions returns the canonical configuration: 15x15 grid, three
// segments, scoring on, 100ms turn debounce, 100ms ticks.
func DefaultOptions() Options {
	return Options{
		GridSize:          15,
		InitialLength:     3,
		Scoring:           true,
		DirectionDebounce: 100 * time.Millisecond,
		TickInterval:      100 * time.Millisecond,
	}
}

// Validate checks that a run can be spawned with these options.
// The snake spawns at the grid centre extending left, so its length is
// limited to the cells left of (and including) the centre.
func (o Options) Validate() error {
	if o.GridSize < 2 {
		return fmt.Errorf("%w: grid size %d is below 2", ErrInvalidOptions, o.GridSize)
	}
	if o.InitialLength < 1 {
		return fmt.Errorf("%w: initial length %d is below 1", ErrInvalidOptions, o.InitialLength)
	}
	if maxLen := o.GridSize/2 + 1; o.InitialLength > maxLen {
		return fmt.Errorf("%w: initial length %d does not fit a %dx%d grid (max %d)",
			ErrInvalidOptions, o.InitialLength, o.GridSize, o.GridSize, maxLen)
	}
	if o.DirectionDebounce < 0 {
		return fmt.Errorf("%w: negative direction debounce %s", ErrInvalidOptions, o.DirectionDebounce)
	}
	if o.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive, got %s", ErrInvalidOptions, o.TickInterval)
	}
	return nil
}
