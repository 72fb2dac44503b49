package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	tests := []struct {
		x, y     int
		expected bool
	}{
		{15, 15, true},  // Inside
		{10, 10, true},  // Top-left corner (inclusive)
		{29, 29, true},  // Bottom-right (inclusive, since W/H are exclusive)
		{30, 30, false}, // Just outside
		{5, 15, false},  // Left of rect
		{15, 5, false},  // Above rect
	}

	for _, tt := range tests {
		result := r.Contains(tt.x, tt.y)
		if result != tt.expected {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, result, tt.expected)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)

	if r.Right() != 40 {
		t.Errorf("Right() = %d, expected 40", r.Right())
	}
	if r.Bottom() != 60 {
		t.Errorf("Bottom() = %d, expected 60", r.Bottom())
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 10, 6).Inset(1)
	if r != NewRect(1, 1, 8, 4) {
		t.Errorf("Inset(1) = %+v", r)
	}

	tiny := NewRect(0, 0, 1, 1).Inset(2)
	if tiny.W != 0 || tiny.H != 0 {
		t.Errorf("Inset larger than rect should collapse, got %+v", tiny)
	}
}

func TestCenterIn(t *testing.T) {
	r := CenterIn(80, 24, 32, 17)
	if r.X != 24 || r.Y != 3 || r.W != 32 || r.H != 17 {
		t.Errorf("CenterIn = %+v", r)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // Within range
		{-5, 0, 10, 0},  // Below min
		{15, 0, 10, 10}, // Above max
		{0, 0, 10, 0},   // At min
		{10, 0, 10, 10}, // At max
	}

	for _, tt := range tests {
		result := Clamp(tt.val, tt.lo, tt.hi)
		if result != tt.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.val, tt.lo, tt.hi, result, tt.expected)
		}
	}
}

func TestActionIsMove(t *testing.T) {
	for _, a := range []Action{ActionUp, ActionDown, ActionLeft, ActionRight} {
		if !a.IsMove() {
			t.Errorf("%s should be a move", a)
		}
	}
	for _, a := range []Action{ActionNone, ActionConfirm, ActionBack, ActionQuit} {
		if a.IsMove() {
			t.Errorf("%s should not be a move", a)
		}
	}
}
