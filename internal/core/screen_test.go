package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	// Check that it's initialized with spaces
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	s.SetColored(2, 3, '@', ColorHead)
	if c := s.GetCell(2, 3); c.Rune != '@' || c.Color != ColorHead {
		t.Errorf("GetCell(2, 3) = %+v", c)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if c := s.GetCell(100, 0); c.Color != ColorDefault {
		t.Error("Out of bounds GetCell should be uncolored")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	s.DrawRect(NewRect(0, 0, 4, 4), '#', ColorRed)
	s.Clear()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("Cell (%d, %d) not cleared: %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)

	s.DrawTextColored(2, 0, "Hello", ColorHUD)
	if s.Row(0) != "  Hello   " {
		t.Errorf("Row(0) = %q", s.Row(0))
	}
	if s.GetCell(2, 0).Color != ColorHUD {
		t.Error("Text should carry its color")
	}

	// Clipped at the right edge
	s.DrawText(7, 1, "Hello")
	if s.Row(1) != "       Hel" {
		t.Errorf("Row(1) = %q", s.Row(1))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 1)
	s.DrawTextCentered(0, "Game Over", ColorOverlay)

	if !strings.Contains(s.Row(0), "Game Over") {
		t.Fatalf("Row(0) = %q", s.Row(0))
	}
	if s.Get(5, 0) != 'G' {
		t.Errorf("Expected text to start at x=5, row is %q", s.Row(0))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorBorder)

	expected := []string{
		"┌───┐",
		"│   │",
		"│   │",
		"└───┘",
	}
	for y, row := range expected {
		if s.Row(y) != row {
			t.Errorf("Row(%d) = %q, expected %q", y, s.Row(y), row)
		}
	}
	if s.GetCell(0, 0).Color != ColorBorder {
		t.Error("Box should use the border color")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawText(0, 1, "def")

	if s.String() != "abc\ndef" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(3, 2)
	s.Set(0, 0, 'X')
	s.Resize(5, 4)

	if s.Width() != 5 || s.Height() != 4 {
		t.Errorf("Resize gave %dx%d", s.Width(), s.Height())
	}
	if s.Get(0, 0) != ' ' {
		t.Error("Resize should clear content")
	}

	s.Resize(-1, -1)
	if s.Width() != 0 || s.Height() != 0 {
		t.Error("Negative sizes should clamp to zero")
	}
	if s.String() != "" {
		t.Errorf("Empty screen String() = %q", s.String())
	}
}
