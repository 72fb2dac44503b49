package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

func scoreboardLedger(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open()
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := time.Now()
	record := func(s *storage.Store, variant string, score int) {
		err := s.RecordRun(snake.RunResult{
			Variant:   variant,
			Score:     score,
			Length:    3 + score,
			Reason:    snake.ReasonWall,
			StartedAt: now.Add(-time.Second),
			EndedAt:   now,
		})
		if err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}
	record(store.ForSession("mine"), "debounced", 3)
	record(store.ForSession("mine"), "tiny", 5)
	record(store.ForSession("theirs"), "debounced", 9)
	return store
}

func updateScoreboard(m ScoreboardModel, msg tea.Msg) ScoreboardModel {
	next, _ := m.Update(msg)
	return next.(ScoreboardModel)
}

func TestScoreboardShowsBest(t *testing.T) {
	store := scoreboardLedger(t)
	m := NewScoreboardModel(store.ForSession("mine"), 100, 30)

	if len(m.runs) != 3 {
		t.Fatalf("Expected 3 runs on the all-variants tab, got %d", len(m.runs))
	}
	if m.best != 9 {
		t.Errorf("best = %d, expected 9 across sessions", m.best)
	}
	if !strings.Contains(m.View(), "Best 9") {
		t.Error("View should show the best score")
	}
}

func TestScoreboardClearDropsOwnRuns(t *testing.T) {
	store := scoreboardLedger(t)
	m := NewScoreboardModel(store.ForSession("mine"), 100, 30)

	m = updateScoreboard(m, runeKey('c'))

	if m.loadErr != nil {
		t.Fatalf("Clear failed: %v", m.loadErr)
	}
	if len(m.runs) != 1 || m.runs[0].Session != "theirs" {
		t.Errorf("Only the other session's run should remain, got %+v", m.runs)
	}
	if m.best != 9 {
		t.Errorf("best = %d, expected 9", m.best)
	}
	if runs, _ := store.SessionRuns("mine", 10); len(runs) != 0 {
		t.Errorf("Expected own runs cleared, got %d", len(runs))
	}
}

func TestScoreboardWithoutLedger(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	m = updateScoreboard(m, runeKey('c'))

	view := m.View()
	if !strings.Contains(view, "Best 0") {
		t.Error("View should show a zero best without a ledger")
	}
	if !strings.Contains(view, "No runs finished yet") {
		t.Error("View should show the empty message")
	}
}
