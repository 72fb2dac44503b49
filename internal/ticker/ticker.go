// Package ticker provides tick sources for the snake controller: a fixed
// interval timer, a frame-driven source with elapsed-time gating, and a
// manual source for tests. All of them treat Stop on a stopped source as a
// no-op.
package ticker

import (
	"sync"
	"time"
)

// Interval fires at a fixed period from its own goroutine. Each tick is
// handed to dispatch, which must run it on the owner's goroutine; that keeps
// every controller call on one timeline.
type Interval struct {
	period   time.Duration
	dispatch func(func())

	mu   sync.Mutex
	stop chan struct{}
}

// NewInterval creates a stopped interval source. A nil dispatch calls the
// tick callback directly from the timer goroutine.
func NewInterval(period time.Duration, dispatch func(func())) *Interval {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Interval{period: period, dispatch: dispatch}
}

// Start begins delivering ticks to onTick, replacing any previous callback.
func (t *Interval) Start(onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	stop := make(chan struct{})
	t.stop = stop
	go t.run(onTick, stop)
}

// Stop halts tick delivery.
func (t *Interval) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Running reports whether the source is delivering ticks. Owners drive the
// source through Start and Stop; Running is for tests and diagnostics.
func (t *Interval) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Interval) run(onTick func(), stop chan struct{}) {
	tk := time.NewTicker(t.period)
	defer tk.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			t.dispatch(func() {
				// A tick queued before Stop must not run after it.
				select {
				case <-stop:
					return
				default:
				}
				onTick()
			})
		}
	}
}

// Frame turns frame callbacks into simulation ticks. Advance is called once
// per rendered frame and fires at most one tick when a full period has
// elapsed. Frame is not safe for concurrent use; it lives on the frame loop.
type Frame struct {
	period  time.Duration
	onTick  func()
	last    time.Time
	running bool
}

// NewFrame creates a stopped frame-gated source.
func NewFrame(period time.Duration) *Frame {
	return &Frame{period: period}
}

// Start arms the source. The first Advance only records the time.
func (f *Frame) Start(onTick func()) {
	f.onTick = onTick
	f.last = time.Time{}
	f.running = true
}

// Stop disarms the source.
func (f *Frame) Stop() {
	f.running = false
	f.onTick = nil
}

// Running reports whether the source is armed. Advance already ignores
// frames while disarmed; Running is for tests and diagnostics.
func (f *Frame) Running() bool {
	return f.running
}

// Advance reports whether a tick fired for a frame rendered at now.
func (f *Frame) Advance(now time.Time) bool {
	if !f.running {
		return false
	}
	if f.last.IsZero() {
		f.last = now
		return false
	}
	if now.Sub(f.last) < f.period {
		return false
	}

	f.last = f.last.Add(f.period)
	if now.Sub(f.last) >= f.period {
		// Too far behind (suspended terminal); drop the backlog.
		f.last = now
	}

	fn := f.onTick
	fn()
	return true
}

// Manual fires only when told to. Used by tests and step-by-step replays.
type Manual struct {
	onTick  func()
	running bool
	starts  int
	stops   int
}

// Start arms the source.
func (m *Manual) Start(onTick func()) {
	m.onTick = onTick
	m.running = true
	m.starts++
}

// Stop disarms the source.
func (m *Manual) Stop() {
	if m.running {
		m.stops++
	}
	m.running = false
}

// Fire delivers one tick if the source is armed.
func (m *Manual) Fire() bool {
	if !m.running {
		return false
	}
	m.onTick()
	return true
}

// FireN delivers up to n ticks, stopping early if the source is disarmed.
func (m *Manual) FireN(n int) int {
	fired := 0
	for range n {
		if !m.Fire() {
			break
		}
		fired++
	}
	return fired
}

// Running reports whether the source is armed. Tests use it to check that
// the controller stopped its ticks.
func (m *Manual) Running() bool {
	return m.running
}

// Starts returns how many times Start was called.
func (m *Manual) Starts() int {
	return m.starts
}

// Stops returns how many times a running source was stopped.
func (m *Manual) Stops() int {
	return m.stops
}
