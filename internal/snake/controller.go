package snake

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// State is the lifecycle state of the controller.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Deps are the collaborators of a Controller. Every field is optional.
type Deps struct {
	Variant  string
	Renderer Renderer
	Scores   ScoreListener
	Ticks    TickSource
	Recorder RunRecorder
	Clock    Clock
	Rand     *rand.Rand
	Logger   *log.Logger
}

// Controller sequences ticks, gates direction changes, tracks the score and
// owns the lifecycle. It is the only writer of the grid model and of State.
// A Controller is not safe for concurrent use; adapters serialize calls.
type Controller struct {
	opts    Options
	variant string

	renderer Renderer
	scores   ScoreListener
	ticks    TickSource
	recorder RunRecorder
	clock    Clock
	placer   *FoodPlacer
	logger   *log.Logger

	state    State
	model    Model
	hasFood  bool
	nextDir  Direction // Latest accepted turn, applied on the next tick
	lastTurn time.Time // When the last turn was accepted
	score    int
	topScore int
	tick     uint64
	started  time.Time
	lastRun  *RunResult
}

// NewController validates opts and wires the collaborators.
// The controller starts Idle; call Start to begin a run.
func NewController(opts Options, deps Deps) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		opts:     opts,
		variant:  deps.Variant,
		renderer: deps.Renderer,
		scores:   deps.Scores,
		ticks:    deps.Ticks,
		recorder: deps.Recorder,
		clock:    deps.Clock,
		logger:   deps.Logger,
	}
	if c.renderer == nil {
		c.renderer = nopRenderer{}
	}
	if c.ticks == nil {
		c.ticks = nopTicks{}
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c.placer = NewFoodPlacer(rng)
	c.model = Model{Size: opts.GridSize, Dir: Right}

	return c, nil
}

// Options returns the options the controller was built with.
func (c *Controller) Options() Options {
	return c.opts
}

// Start begins a fresh run from Idle or GameOver. It is a no-op while a
// run is in progress.
func (c *Controller) Start() {
	if c.state == StateRunning {
		return
	}

	c.reset()
	c.state = StateRunning
	c.logger.Debug("run started", "variant", c.variant, "grid", c.opts.GridSize, "food", c.model.Food)

	c.notifyScore()
	c.renderer.Render(c.frame())
	c.ticks.Start(c.Tick)
}

// reset builds a new grid model. TopScore survives.
func (c *Controller) reset() {
	size := c.opts.GridSize
	origin := Cell{X: size / 2, Y: size / 2}

	body := make([]Cell, c.opts.InitialLength)
	for i := range body {
		body[i] = Cell{X: origin.X - i, Y: origin.Y}
	}

	c.model = Model{Size: size, Snake: body, Dir: Right}
	c.nextDir = Right
	c.lastTurn = time.Time{}
	c.score = 0
	c.tick = 0
	c.started = c.clock()

	c.model.Food, c.hasFood = c.placer.Place(c.model.Snake, size)
}

// Tick advances the simulation by one step. Ignored outside Running.
func (c *Controller) Tick() {
	if c.state != StateRunning {
		return
	}

	c.tick++
	c.model.Dir = c.nextDir

	moved := Advance(&c.model)
	if moved.Ate {
		if c.opts.Scoring {
			c.score++
			c.topScore = max(c.topScore, c.score)
			c.notifyScore()
		}

		c.model.Food, c.hasFood = c.placer.Place(c.model.Snake, c.model.Size)
		if !c.hasFood {
			c.finish(ReasonBoardFull)
			return
		}
	}

	hit := Check(&c.model)
	switch {
	case hit.Wall:
		c.finish(ReasonWall)
		return
	case hit.Self:
		c.finish(ReasonSelf)
		return
	}

	c.renderer.Render(c.frame())
}

// SetDirection requests a turn for the next tick. Requests outside Running,
// reversals into the neck and turns inside the debounce window are dropped.
// Between two ticks the latest accepted request wins.
func (c *Controller) SetDirection(d Direction) bool {
	if c.state != StateRunning || !d.Valid() {
		return false
	}
	if d == c.model.Dir.Opposite() || d == c.nextDir {
		return false
	}

	now := c.clock()
	if c.opts.DirectionDebounce > 0 && !c.lastTurn.IsZero() &&
		now.Sub(c.lastTurn) < c.opts.DirectionDebounce {
		return false
	}

	c.nextDir = d
	c.lastTurn = now
	return true
}

// Stop halts tick delivery and abandons a run in progress without
// recording it. Safe to call repeatedly.
func (c *Controller) Stop() {
	c.ticks.Stop()
	if c.state == StateRunning {
		c.state = StateIdle
		c.logger.Debug("run abandoned", "variant", c.variant, "tick", c.tick)
	}
}

// finish ends the run: ticks stop, the overlay is drawn, the run is recorded
// and the visible score drops back to zero while TopScore stays.
func (c *Controller) finish(reason EndReason) {
	c.ticks.Stop()
	c.state = StateGameOver

	run := RunResult{
		Variant:   c.variant,
		Score:     c.score,
		TopScore:  c.topScore,
		Length:    len(c.model.Snake),
		Ticks:     c.tick,
		Reason:    reason,
		StartedAt: c.started,
		EndedAt:   c.clock(),
	}
	c.lastRun = &run

	c.renderer.GameOver(c.frame(), run)

	c.score = 0
	c.notifyScore()

	if c.recorder != nil {
		if err := c.recorder.RecordRun(run); err != nil {
			c.logger.Warn("could not record run", "error", err)
		}
	}
	c.logger.Info("run finished",
		"variant", c.variant,
		"reason", reason,
		"score", run.Score,
		"top", run.TopScore,
		"ticks", run.Ticks,
	)
}

func (c *Controller) notifyScore() {
	if c.scores != nil {
		c.scores.ScoreChanged(c.score, c.topScore)
	}
}

// frame copies the model so renderers never alias controller state.
func (c *Controller) frame() Frame {
	m := c.model.Clone()
	return Frame{
		Size:     m.Size,
		Snake:    m.Snake,
		Food:     m.Food,
		HasFood:  c.hasFood,
		Dir:      m.Dir,
		Score:    c.score,
		TopScore: c.topScore,
		State:    c.state,
		Tick:     c.tick,
	}
}

// Frame returns the current state as a renderer would see it.
func (c *Controller) Frame() Frame {
	return c.frame()
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Score returns the current run's score.
func (c *Controller) Score() int {
	return c.score
}

// TopScore returns the best score seen by this controller.
func (c *Controller) TopScore() int {
	return c.topScore
}

// LastRun returns the most recently finished run, if any.
func (c *Controller) LastRun() (RunResult, bool) {
	if c.lastRun == nil {
		return RunResult{}, false
	}
	return *c.lastRun, true
}
