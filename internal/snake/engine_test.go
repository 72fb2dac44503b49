package snake

import (
	"math/rand"
	"testing"
)

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		d, want Direction
	}{
		{Right, Left},
		{Left, Right},
		{Up, Down},
		{Down, Up},
	}

	for _, tc := range tests {
		if got := tc.d.Opposite(); got != tc.want {
			t.Errorf("%s.Opposite() = %s, expected %s", tc.d, got, tc.want)
		}
		dx, dy := tc.d.Vector()
		ox, oy := tc.want.Vector()
		if dx != -ox || dy != -oy {
			t.Errorf("vectors of %s and %s are not inverse", tc.d, tc.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"up", Up, true},
		{"DOWN", Down, true},
		{" left ", Left, true},
		{"r", Right, true},
		{"sideways", 0, false},
	}

	for _, tc := range tests {
		got, err := ParseDirection(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseDirection(%q) failed: %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseDirection(%q) should fail", tc.in)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDirection(%q) = %s, expected %s", tc.in, got, tc.want)
		}
	}
}

func TestAdvanceScenario(t *testing.T) {
	m := Model{
		Size:  15,
		Snake: []Cell{{7, 7}, {6, 7}, {5, 7}},
		Food:  Cell{8, 7},
		Dir:   Right,
	}

	res := Advance(&m)
	if !res.Ate {
		t.Fatal("head on food should report Ate")
	}
	if res.NewHead != (Cell{8, 7}) {
		t.Errorf("NewHead = %v, expected (8,7)", res.NewHead)
	}

	want := []Cell{{8, 7}, {7, 7}, {6, 7}, {5, 7}}
	if len(m.Snake) != len(want) {
		t.Fatalf("snake length = %d, expected %d", len(m.Snake), len(want))
	}
	for i := range want {
		if m.Snake[i] != want[i] {
			t.Errorf("snake[%d] = %v, expected %v", i, m.Snake[i], want[i])
		}
	}
}

func TestAdvanceKeepsLengthWithoutFood(t *testing.T) {
	m := Model{
		Size:  15,
		Snake: []Cell{{7, 7}, {6, 7}, {5, 7}},
		Food:  Cell{0, 0},
		Dir:   Down,
	}

	res := Advance(&m)
	if res.Ate {
		t.Error("should not eat")
	}

	want := []Cell{{7, 8}, {7, 7}, {6, 7}}
	for i := range want {
		if m.Snake[i] != want[i] {
			t.Errorf("snake[%d] = %v, expected %v", i, m.Snake[i], want[i])
		}
	}
	if len(m.Snake) != 3 {
		t.Errorf("length changed to %d", len(m.Snake))
	}
}

func TestAdvanceSingleSegment(t *testing.T) {
	m := Model{Size: 5, Snake: []Cell{{2, 2}}, Food: Cell{4, 4}, Dir: Up}

	Advance(&m)
	if len(m.Snake) != 1 || m.Snake[0] != (Cell{2, 1}) {
		t.Errorf("single segment snake = %v, expected [(2,1)]", m.Snake)
	}

	if hit := Check(&m); hit.Terminal() {
		t.Errorf("unexpected collision on single segment: %+v", hit)
	}
}

func TestGrowthInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	placer := NewFoodPlacer(rng)

	m := Model{Size: 15, Snake: []Cell{{7, 7}, {6, 7}, {5, 7}}, Dir: Right}
	m.Food, _ = placer.Place(m.Snake, m.Size)

	for range 500 {
		// Steer towards the food without reversing
		head := m.Head()
		want := m.Dir
		switch {
		case m.Food.X > head.X:
			want = Right
		case m.Food.X < head.X:
			want = Left
		case m.Food.Y > head.Y:
			want = Down
		case m.Food.Y < head.Y:
			want = Up
		}
		if want != m.Dir.Opposite() {
			m.Dir = want
		}

		before := len(m.Snake)
		res := Advance(&m)
		after := len(m.Snake)

		if res.Ate && after != before+1 {
			t.Fatalf("ate but length %d -> %d", before, after)
		}
		if !res.Ate && after != before {
			t.Fatalf("did not eat but length %d -> %d", before, after)
		}

		if Check(&m).Terminal() {
			return
		}
		if res.Ate {
			var ok bool
			m.Food, ok = placer.Place(m.Snake, m.Size)
			if !ok {
				return
			}
		}
	}
}

func TestCheckWall(t *testing.T) {
	m := Model{Size: 15, Snake: []Cell{{0, 0}}, Food: Cell{5, 5}, Dir: Left}

	Advance(&m)
	if m.Head() != (Cell{-1, 0}) {
		t.Fatalf("head = %v, expected (-1,0)", m.Head())
	}

	hit := Check(&m)
	if !hit.Wall {
		t.Error("expected wall collision")
	}
	if hit.Self {
		t.Error("did not expect self collision")
	}
}

func TestCheckWallEdges(t *testing.T) {
	tests := []struct {
		name string
		head Cell
		wall bool
	}{
		{"origin", Cell{0, 0}, false},
		{"far corner", Cell{14, 14}, false},
		{"right edge", Cell{15, 3}, true},
		{"bottom edge", Cell{3, 15}, true},
		{"top edge", Cell{3, -1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Model{Size: 15, Snake: []Cell{tc.head}}
			if got := Check(&m).Wall; got != tc.wall {
				t.Errorf("Wall = %v, expected %v", got, tc.wall)
			}
		})
	}
}

func TestCheckSelf(t *testing.T) {
	// Head sits on body index 2
	m := Model{
		Size:  15,
		Snake: []Cell{{6, 5}, {5, 5}, {6, 5}, {7, 5}},
	}
	if !Check(&m).Self {
		t.Error("expected self collision when head overlaps index 2")
	}

	// Loop of four moving into its own body
	m = Model{
		Size:  15,
		Snake: []Cell{{5, 5}, {5, 6}, {6, 5}, {7, 5}},
		Food:  Cell{0, 0},
		Dir:   Right,
	}
	Advance(&m)
	hit := Check(&m)
	if !hit.Self {
		t.Errorf("expected self collision after move, snake = %v", m.Snake)
	}
	if hit.Wall {
		t.Error("did not expect wall collision")
	}
}

func TestFoodExclusion(t *testing.T) {
	rng := rand.New(rand.NewSource(999))
	placer := NewFoodPlacer(rng)
	snake := []Cell{{7, 7}, {8, 7}, {9, 7}, {9, 8}}

	for range 1000 {
		c, ok := placer.Place(snake, 15)
		if !ok {
			t.Fatal("placement should succeed on a mostly empty board")
		}
		if occupies(snake, c) {
			t.Fatalf("food placed on snake at %v", c)
		}
		if c.X < 0 || c.X >= 15 || c.Y < 0 || c.Y >= 15 {
			t.Fatalf("food out of bounds at %v", c)
		}
	}
}

func TestFoodLastFreeCell(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	placer := NewFoodPlacer(rng)

	// Fill a 4x4 board except (2,3)
	var snake []Cell
	for y := range 4 {
		for x := range 4 {
			if x == 2 && y == 3 {
				continue
			}
			snake = append(snake, Cell{x, y})
		}
	}

	for range 20 {
		c, ok := placer.Place(snake, 4)
		if !ok {
			t.Fatal("one free cell remains")
		}
		if c != (Cell{2, 3}) {
			t.Fatalf("food at %v, expected (2,3)", c)
		}
	}
}

func TestFoodBoardFull(t *testing.T) {
	placer := NewFoodPlacer(rand.New(rand.NewSource(1)))
	snake := []Cell{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	if _, ok := placer.Place(snake, 2); ok {
		t.Error("placement on a full board should fail")
	}
}
