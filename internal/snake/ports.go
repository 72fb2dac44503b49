package snake

import "time"

// Renderer draws frames produced by the controller.
type Renderer interface {
	// Render receives the steady state after every tick that did not end the run.
	Render(f Frame)
	// GameOver receives the final frame and the run outcome.
	GameOver(f Frame, run RunResult)
}

// ScoreListener is notified whenever the visible score changes.
type ScoreListener interface {
	ScoreChanged(score, top int)
}

// TickSource delivers periodic ticks while started.
// Stop must be safe to call on a stopped source.
type TickSource interface {
	Start(onTick func())
	Stop()
}

// RunRecorder stores finished runs.
type RunRecorder interface {
	RecordRun(run RunResult) error
}

// Clock returns the current time. Used for the turn debounce.
type Clock func() time.Time

// EndReason tells why a run finished.
type EndReason string

const (
	ReasonWall      EndReason = "wall"
	ReasonSelf      EndReason = "self"
	ReasonBoardFull EndReason = "board_full"
)

// Won reports whether the run ended by filling the board.
func (r EndReason) Won() bool {
	return r == ReasonBoardFull
}

// RunResult is the record of one finished run.
type RunResult struct {
	Variant   string
	Score     int
	TopScore  int
	Length    int
	Ticks     uint64
	Reason    EndReason
	StartedAt time.Time
	EndedAt   time.Time
}

// Frame is an immutable copy of the state handed to a Renderer.
type Frame struct {
	Size     int
	Snake    []Cell
	Food     Cell
	HasFood  bool
	Dir      Direction
	Score    int
	TopScore int
	State    State
	Tick     uint64
}

type nopRenderer struct{}

func (nopRenderer) Render(Frame) {}

func (nopRenderer) GameOver(Frame, RunResult) {}

type nopTicks struct{}

func (nopTicks) Start(func()) {}

func (nopTicks) Stop() {}
