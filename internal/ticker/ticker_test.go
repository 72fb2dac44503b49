package ticker

import (
	"testing"
	"time"
)

func TestFrameGating(t *testing.T) {
	f := NewFrame(100 * time.Millisecond)
	ticks := 0
	f.Start(func() { ticks++ })

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// First frame only records the time
	if f.Advance(base) {
		t.Fatal("first frame should not tick")
	}

	// 60 fps frames: a tick every sixth-ish frame
	frame := time.Second / 60
	for i := 1; i <= 60; i++ {
		f.Advance(base.Add(time.Duration(i) * frame))
	}

	if ticks < 9 || ticks > 10 {
		t.Errorf("expected ~10 ticks in one second of frames, got %d", ticks)
	}
}

func TestFrameAtMostOneTickPerFrame(t *testing.T) {
	f := NewFrame(100 * time.Millisecond)
	ticks := 0
	f.Start(func() { ticks++ })

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.Advance(base)

	// A long stall must not replay the backlog
	f.Advance(base.Add(5 * time.Second))
	if ticks != 1 {
		t.Fatalf("expected 1 tick after stall, got %d", ticks)
	}

	f.Advance(base.Add(5*time.Second + 50*time.Millisecond))
	if ticks != 1 {
		t.Errorf("expected no tick within the period after a stall, got %d", ticks)
	}
	f.Advance(base.Add(5*time.Second + 100*time.Millisecond))
	if ticks != 2 {
		t.Errorf("expected second tick one period after stall, got %d", ticks)
	}
}

func TestFrameStopFromCallback(t *testing.T) {
	f := NewFrame(10 * time.Millisecond)
	ticks := 0
	f.Start(func() {
		ticks++
		f.Stop()
	})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.Advance(base)
	f.Advance(base.Add(10 * time.Millisecond))
	f.Advance(base.Add(20 * time.Millisecond))

	if ticks != 1 {
		t.Errorf("expected 1 tick before stop, got %d", ticks)
	}
	if f.Running() {
		t.Error("source should be stopped")
	}

	// Idempotent
	f.Stop()
	f.Stop()
}

func TestManual(t *testing.T) {
	var m Manual
	ticks := 0

	if m.Fire() {
		t.Error("unstarted source should not fire")
	}

	m.Start(func() { ticks++ })
	if got := m.FireN(3); got != 3 {
		t.Errorf("FireN(3) = %d, expected 3", got)
	}

	m.Stop()
	m.Stop()
	if m.Stops() != 1 {
		t.Errorf("Stops() = %d, expected 1 for repeated Stop", m.Stops())
	}
	if m.Fire() {
		t.Error("stopped source should not fire")
	}
	if ticks != 3 {
		t.Errorf("expected 3 ticks, got %d", ticks)
	}
}

func TestIntervalDispatch(t *testing.T) {
	mailbox := make(chan func(), 16)
	iv := NewInterval(5*time.Millisecond, func(fn func()) { mailbox <- fn })

	ticks := 0
	iv.Start(func() { ticks++ })
	if !iv.Running() {
		t.Fatal("interval should be running after Start")
	}

	deadline := time.After(2 * time.Second)
	for ticks < 3 {
		select {
		case fn := <-mailbox:
			fn()
		case <-deadline:
			t.Fatalf("timed out waiting for ticks, got %d", ticks)
		}
	}

	iv.Stop()
	iv.Stop()
	if iv.Running() {
		t.Error("interval should be stopped")
	}

	// Ticks already queued must be dropped after Stop
	before := ticks
	for {
		select {
		case fn := <-mailbox:
			fn()
			continue
		default:
		}
		break
	}
	if ticks != before {
		t.Errorf("ticks delivered after Stop: %d -> %d", before, ticks)
	}
}
