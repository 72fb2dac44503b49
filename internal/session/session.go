// Package session runs one snake controller on its own goroutine. Commands
// and interval ticks are posted into a mailbox and executed in arrival order,
// so networked adapters get the same single-threaded model as the terminal
// loop.
package session

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/ticker"
)

var errAlreadyRunning = errors.New("session: already running")

// ID uniquely identifies a session.
type ID string

// NewID returns a random session ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// String returns the ID as a string.
func (id ID) String() string {
	return string(id)
}

// Config describes a session. Renderer, Scores and Recorder are called from
// the session goroutine.
type Config struct {
	ID       ID // Generated when empty
	Variant  string
	Options  snake.Options
	Renderer snake.Renderer
	Scores   snake.ScoreListener
	Recorder snake.RunRecorder
	Clock    snake.Clock
	Rand     *rand.Rand
	Logger   *log.Logger

	// MailboxSize bounds queued commands and ticks (default 64).
	MailboxSize int
}

// Session owns a controller and the goroutine that drives it.
type Session struct {
	id      ID
	variant string
	ctrl    *snake.Controller
	ticks   *ticker.Interval
	logger  *log.Logger

	mailbox   chan func()
	quit      chan struct{}
	quitOnce  sync.Once
	done      chan struct{}
	startOnce sync.Once
}

// New builds a session. Nothing runs until Run is called.
func New(cfg Config) (*Session, error) {
	if cfg.ID == "" {
		cfg.ID = NewID()
	}
	if cfg.MailboxSize < 1 {
		cfg.MailboxSize = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("session", cfg.ID.String())

	s := &Session{
		id:      cfg.ID,
		variant: cfg.Variant,
		logger:  logger,
		mailbox: make(chan func(), cfg.MailboxSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.ticks = ticker.NewInterval(cfg.Options.TickInterval, s.dispatchTick)

	ctrl, err := snake.NewController(cfg.Options, snake.Deps{
		Variant:  cfg.Variant,
		Renderer: cfg.Renderer,
		Scores:   cfg.Scores,
		Ticks:    s.ticks,
		Recorder: cfg.Recorder,
		Clock:    cfg.Clock,
		Rand:     cfg.Rand,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() ID {
	return s.id
}

// Variant returns the variant the session plays.
func (s *Session) Variant() string {
	return s.variant
}

// Run executes mailbox entries until ctx is cancelled or Close is called.
// The controller is stopped before Run returns. Run must be called at most
// once; later calls return immediately.
func (s *Session) Run(ctx context.Context) error {
	err := errAlreadyRunning
	s.startOnce.Do(func() {
		err = s.loop(ctx)
	})
	return err
}

func (s *Session) loop(ctx context.Context) error {
	defer close(s.done)
	defer s.ctrl.Stop()

	s.logger.Debug("session loop started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("session loop cancelled")
			return ctx.Err()
		case <-s.quit:
			s.logger.Debug("session closed")
			return nil
		case fn := <-s.mailbox:
			fn()
		}
	}
}

// Close ends Run. Safe to call multiple times.
func (s *Session) Close() {
	s.quitOnce.Do(func() {
		close(s.quit)
	})
}

// Done returns a channel that closes when Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Start begins a run (no-op while one is in progress).
func (s *Session) Start() bool {
	return s.post(s.ctrl.Start)
}

// Turn requests a direction change for the next tick.
func (s *Session) Turn(d snake.Direction) bool {
	return s.post(func() { s.ctrl.SetDirection(d) })
}

// Stop abandons the current run and returns to idle.
func (s *Session) Stop() bool {
	return s.post(s.ctrl.Stop)
}

// Snapshot returns the controller state as seen from the session goroutine.
func (s *Session) Snapshot() (snake.Snapshot, bool) {
	reply := make(chan snake.Snapshot, 1)
	if !s.post(func() { reply <- s.ctrl.Snapshot() }) {
		return snake.Snapshot{}, false
	}
	select {
	case snap := <-reply:
		return snap, true
	case <-s.quit:
		return snake.Snapshot{}, false
	case <-s.done:
		return snake.Snapshot{}, false
	}
}

// Frame returns the current frame as seen from the session goroutine.
func (s *Session) Frame() (snake.Frame, bool) {
	reply := make(chan snake.Frame, 1)
	if !s.post(func() { reply <- s.ctrl.Frame() }) {
		return snake.Frame{}, false
	}
	select {
	case f := <-reply:
		return f, true
	case <-s.quit:
		return snake.Frame{}, false
	case <-s.done:
		return snake.Frame{}, false
	}
}

// post queues fn, blocking while the mailbox is full. It reports false once
// the session is closed.
func (s *Session) post(fn func()) bool {
	select {
	case <-s.quit:
		return false
	case <-s.done:
		return false
	default:
	}

	select {
	case s.mailbox <- fn:
		return true
	case <-s.quit:
		return false
	case <-s.done:
		return false
	}
}

// dispatchTick queues a tick without blocking the timer. A tick that finds
// the mailbox full is dropped; the next one catches up.
func (s *Session) dispatchTick(fn func()) {
	select {
	case s.mailbox <- fn:
	case <-s.quit:
	case <-s.done:
	default:
		s.logger.Debug("tick dropped, mailbox full")
	}
}
