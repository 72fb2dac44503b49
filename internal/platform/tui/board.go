package tui

import (
	"fmt"

	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/snake"
)

// Each grid cell is two terminal columns wide so the board looks square.
const cellWidth = 2

// Board is the terminal renderer for a snake controller. It keeps the last
// frame it was handed and draws it into a core.Screen on demand.
type Board struct {
	title    string
	size     int
	frame    snake.Frame
	hasFrame bool
	run      *snake.RunResult
	score    int
	top      int
}

var (
	_ snake.Renderer      = (*Board)(nil)
	_ snake.ScoreListener = (*Board)(nil)
)

// NewBoard creates a board for a grid of the given size.
func NewBoard(title string, size int) *Board {
	return &Board{title: title, size: size}
}

// Render implements snake.Renderer.
func (b *Board) Render(f snake.Frame) {
	b.frame = f
	b.hasFrame = true
	b.run = nil
}

// GameOver implements snake.Renderer.
func (b *Board) GameOver(f snake.Frame, run snake.RunResult) {
	b.frame = f
	b.hasFrame = true
	b.run = &run
}

// ScoreChanged implements snake.ScoreListener.
func (b *Board) ScoreChanged(score, top int) {
	b.score = score
	b.top = top
}

// Size returns the screen area the board needs, HUD and footer included.
func (b *Board) Size() (w, h int) {
	return b.size*cellWidth + 2, b.size + 4
}

// Draw renders the board for the given controller state.
func (b *Board) Draw(s *core.Screen, state snake.State) {
	s.Clear()

	w, h := b.Size()
	if s.Width() < w || s.Height() < h {
		mid := s.Height() / 2
		s.DrawTextCentered(mid-1, "Terminal too small", core.ColorOverlay)
		s.DrawTextCentered(mid, fmt.Sprintf("need %dx%d", w, h), core.ColorBorder)
		return
	}

	area := core.CenterIn(s.Width(), s.Height(), w, h)
	box := core.NewRect(area.X, area.Y+1, w, b.size+2)
	grid := box.Inset(1)

	b.drawHUD(s, area)
	s.DrawBox(box, core.ColorBorder)
	b.drawGrid(s, grid)

	switch state {
	case snake.StateIdle:
		b.dim(s, grid)
		b.drawOverlay(s, grid, []string{"Press Enter to start"})
	case snake.StateGameOver:
		b.dim(s, grid)
		b.drawOverlay(s, grid, b.gameOverLines())
	}

	footer := "WASD/Arrows: steer  Enter: start  Esc: menu  Q: quit"
	if len(footer) > s.Width() {
		footer = "WASD: steer  Enter: start  Q: quit"
	}
	s.DrawTextCentered(box.Bottom(), footer, core.ColorBorder)
}

func (b *Board) drawHUD(s *core.Screen, area core.Rect) {
	s.DrawTextColored(area.X, area.Y, b.title, core.ColorHUD)

	scores := fmt.Sprintf("Score %d  Top %d", b.score, b.top)
	s.DrawTextColored(area.Right()-len(scores), area.Y, scores, core.ColorOverlay)
}

func (b *Board) drawGrid(s *core.Screen, grid core.Rect) {
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			s.SetColored(grid.X+x*cellWidth, grid.Y+y, '·', core.ColorBorder)
		}
	}
	if !b.hasFrame {
		return
	}

	f := b.frame
	if f.HasFood {
		b.fillCell(s, grid, f.Food, core.ColorFood)
	}
	// Body first so the head wins if they ever share a cell.
	for i := len(f.Snake) - 1; i >= 1; i-- {
		b.fillCell(s, grid, f.Snake[i], core.ColorBody)
	}
	if len(f.Snake) > 0 {
		b.fillCell(s, grid, f.Snake[0], core.ColorHead)
	}
}

func (b *Board) fillCell(s *core.Screen, grid core.Rect, c snake.Cell, color core.Color) {
	// A head that left the grid is clipped to the wall.
	x := core.Clamp(c.X, 0, b.size-1)
	y := core.Clamp(c.Y, 0, b.size-1)
	for i := 0; i < cellWidth; i++ {
		s.SetColored(grid.X+x*cellWidth+i, grid.Y+y, '█', color)
	}
}

// dim greys out the grid under an overlay.
func (b *Board) dim(s *core.Screen, grid core.Rect) {
	for y := grid.Y; y < grid.Bottom(); y++ {
		for x := grid.X; x < grid.Right(); x++ {
			c := s.GetCell(x, y)
			if c.Rune == '█' {
				s.SetColored(x, y, '░', core.ColorBorder)
			}
		}
	}
}

func (b *Board) gameOverLines() []string {
	if b.run == nil {
		return []string{"Game Over"}
	}

	headline := "Game Over"
	if b.run.Reason.Won() {
		headline = "Board cleared!"
	}
	return []string{
		headline,
		"",
		fmt.Sprintf("Score %d", b.run.Score),
		"",
		"Enter: play again",
	}
}

func (b *Board) drawOverlay(s *core.Screen, grid core.Rect, lines []string) {
	top := grid.Y + (grid.H-len(lines))/2
	for i, line := range lines {
		if line == "" {
			continue
		}
		y := top + i
		x := grid.X + (grid.W-len([]rune(line)))/2
		// Clear a padded band so the text stays readable over the grid.
		s.DrawRect(core.NewRect(x-1, y, len([]rune(line))+2, 1), ' ', core.ColorDefault)
		s.DrawTextColored(x, y, line, core.ColorOverlay)
	}
}
