// Package web serves the snake over websockets. Each connection drives its
// own session; a small JSON API exposes variants and the run ledger.
//
// Messages use single-character "t" type keys.
//
//	Client → Server:
//	  "s" = start  {"t":"s"}
//	  "d" = turn   {"t":"d","d":"up"}
//	  "x" = stop   {"t":"x"}
//	Server → Client:
//	  "w" = welcome   {"t":"w","i":"uuid","v":"classic","n":15}
//	  "f" = frame     {"t":"f","s":[[7,7],[6,7]],"f":[8,7],"d":"right","k":1,"st":"running"}
//	  "p" = score     {"t":"p","p":1,"h":3}
//	  "o" = game over {"t":"o","r":"wall","p":4,"h":6,"l":7,"k":42}
//	  "e" = error     {"t":"e","m":"unknown message"}
package web

import (
	"github.com/vovakirdan/gridsnake/internal/snake"
)

// Message type identifiers.
const (
	MsgStart    = "s"
	MsgTurn     = "d"
	MsgStop     = "x"
	MsgWelcome  = "w"
	MsgFrame    = "f"
	MsgScore    = "p"
	MsgGameOver = "o"
	MsgError    = "e"
)

// ClientMessage is an incoming message from the browser.
type ClientMessage struct {
	Type string `json:"t"`
	Dir  string `json:"d,omitempty"`
}

// WelcomeMsg is sent immediately after the upgrade.
type WelcomeMsg struct {
	Type    string `json:"t"`
	ID      string `json:"i"`
	Variant string `json:"v"`
	Size    int    `json:"n"`
}

// FrameMsg carries one rendered frame. Food is omitted when the board is full.
type FrameMsg struct {
	Type  string   `json:"t"`
	Snake [][2]int `json:"s"`
	Food  *[2]int  `json:"f,omitempty"`
	Dir   string   `json:"d"`
	Tick  uint64   `json:"k"`
	State string   `json:"st"`
}

// ScoreMsg reports the visible score and the session's top score.
type ScoreMsg struct {
	Type  string `json:"t"`
	Score int    `json:"p"`
	Top   int    `json:"h"`
}

// GameOverMsg reports the end of a run.
type GameOverMsg struct {
	Type   string `json:"t"`
	Reason string `json:"r"`
	Score  int    `json:"p"`
	Top    int    `json:"h"`
	Length int    `json:"l"`
	Ticks  uint64 `json:"k"`
}

// ErrorMsg reports a rejected client message.
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

func newFrameMsg(f snake.Frame) FrameMsg {
	msg := FrameMsg{
		Type:  MsgFrame,
		Snake: make([][2]int, len(f.Snake)),
		Dir:   f.Dir.String(),
		Tick:  f.Tick,
		State: f.State.String(),
	}
	for i, c := range f.Snake {
		msg.Snake[i] = [2]int{c.X, c.Y}
	}
	if f.HasFood {
		msg.Food = &[2]int{f.Food.X, f.Food.Y}
	}
	return msg
}

func newGameOverMsg(run snake.RunResult) GameOverMsg {
	return GameOverMsg{
		Type:   MsgGameOver,
		Reason: string(run.Reason),
		Score:  run.Score,
		Top:    run.TopScore,
		Length: run.Length,
		Ticks:  run.Ticks,
	}
}
