package session

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/gridsnake/internal/snake"
)

type chanRenderer struct {
	frames chan snake.Frame
	over   chan snake.RunResult
}

func newChanRenderer() *chanRenderer {
	return &chanRenderer{
		frames: make(chan snake.Frame, 256),
		over:   make(chan snake.RunResult, 4),
	}
}

func (r *chanRenderer) Render(f snake.Frame) {
	select {
	case r.frames <- f:
	default:
	}
}

func (r *chanRenderer) GameOver(f snake.Frame, run snake.RunResult) {
	r.over <- run
}

func classicOptions(tick time.Duration) snake.Options {
	opts := snake.DefaultOptions()
	opts.DirectionDebounce = 0
	opts.TickInterval = tick
	return opts
}

func startSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	return s
}

func TestNewGeneratesID(t *testing.T) {
	a, err := New(Config{Options: classicOptions(time.Hour)})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	b, _ := New(Config{Options: classicOptions(time.Hour)})

	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("Expected distinct non-empty IDs, got %q and %q", a.ID(), b.ID())
	}

	c, _ := New(Config{ID: "fixed", Options: classicOptions(time.Hour)})
	if c.ID() != "fixed" {
		t.Errorf("Expected ID fixed, got %q", c.ID())
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	opts := classicOptions(time.Hour)
	opts.GridSize = 1
	if _, err := New(Config{Options: opts}); err == nil {
		t.Error("Expected error for invalid options")
	}
}

func TestStartAndTurn(t *testing.T) {
	// Ticks never fire within the test; state changes come from commands only.
	s := startSession(t, Config{Variant: "classic", Options: classicOptions(time.Hour)})

	snap, ok := s.Snapshot()
	if !ok {
		t.Fatal("Snapshot() failed")
	}
	if snap.State != snake.StateIdle {
		t.Fatalf("Expected idle before start, got %s", snap.State)
	}

	s.Start()
	s.Turn(snake.Down)

	snap, _ = s.Snapshot()
	if snap.State != snake.StateRunning {
		t.Errorf("Expected running after start, got %s", snap.State)
	}
	if snap.NextDir != snake.Down {
		t.Errorf("Expected pending turn Down, got %s", snap.NextDir)
	}
	if snap.HeadX != 7 || snap.HeadY != 7 || snap.SnakeLen != 3 {
		t.Errorf("Unexpected spawn: head (%d,%d) len %d", snap.HeadX, snap.HeadY, snap.SnakeLen)
	}
	if snap.Variant != "classic" {
		t.Errorf("Expected variant classic, got %q", snap.Variant)
	}

	s.Turn(snake.Left)
	snap, _ = s.Snapshot()
	if snap.NextDir != snake.Down {
		t.Errorf("Reversal should be rejected, pending turn is %s", snap.NextDir)
	}

	s.Stop()
	snap, _ = s.Snapshot()
	if snap.State != snake.StateIdle {
		t.Errorf("Expected idle after stop, got %s", snap.State)
	}
}

func TestIntervalTicksDriveRun(t *testing.T) {
	r := newChanRenderer()
	s := startSession(t, Config{Options: classicOptions(5 * time.Millisecond), Renderer: r})

	s.Start()

	// Heading right from (7,7) the head leaves the 15x15 grid on tick 8.
	select {
	case run := <-r.over:
		if run.Reason != snake.ReasonWall {
			t.Errorf("Expected wall collision, got %s", run.Reason)
		}
		if run.Ticks != 8 {
			t.Errorf("Expected 8 ticks, got %d", run.Ticks)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not end")
	}

	snap, ok := s.Snapshot()
	if !ok {
		t.Fatal("Snapshot() failed")
	}
	if snap.State != snake.StateGameOver {
		t.Errorf("Expected game over, got %s", snap.State)
	}

	// No more ticks after game over.
	tick := snap.Tick
	time.Sleep(30 * time.Millisecond)
	snap, _ = s.Snapshot()
	if snap.Tick != tick {
		t.Errorf("Ticks continued after game over: %d -> %d", tick, snap.Tick)
	}
}

func TestCloseEndsRun(t *testing.T) {
	s, err := New(Config{Options: classicOptions(time.Hour)})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	s.Start()
	s.Close()
	s.Close()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() returned %v after Close", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}

	if s.Start() {
		t.Error("Start should fail on a closed session")
	}
	if _, ok := s.Snapshot(); ok {
		t.Error("Snapshot should fail on a closed session")
	}
	if err := s.Run(context.Background()); err == nil {
		t.Error("Second Run should return an error")
	}
}

func TestContextCancelEndsRun(t *testing.T) {
	s, _ := New(Config{Options: classicOptions(time.Hour)})
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a, _ := New(Config{ID: "b", Options: classicOptions(time.Hour)})
	b, _ := New(Config{ID: "a", Options: classicOptions(time.Hour)})

	r.Register(a)
	r.Register(b)

	if r.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", r.Count())
	}
	if got, ok := r.Get("b"); !ok || got != a {
		t.Error("Get(b) returned wrong session")
	}
	ids := r.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Expected sorted IDs [a b], got %v", ids)
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("Session a should be gone")
	}
	if r.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", r.Count())
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, _ := New(Config{Options: classicOptions(time.Hour)})
			r.Register(s)
			r.Count()
			r.Unregister(s.ID())
		}()
	}
	wg.Wait()

	if r.Count() != 0 {
		t.Errorf("Expected empty registry, got %d", r.Count())
	}
}
