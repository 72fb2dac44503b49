// Package tui provides the Bubble Tea front end: the board renderer, the
// game and menu models, the scoreboard and the Wish SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent once per rendered frame. Gen identifies the game model
// whose frame loop produced it; stale loops die when their model is gone.
type FrameMsg struct {
	At  time.Time
	Gen uint64
}

var frameGen atomic.Uint64

// nextFrameGen returns a fresh frame loop generation.
func nextFrameGen() uint64 {
	return frameGen.Add(1)
}

// frameCmd returns a Bubble Tea command that sends a frame message at the
// given rate.
func frameCmd(fps int, gen uint64) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{At: t, Gen: gen}
	})
}
