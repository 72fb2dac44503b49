package tui

import (
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/registry"
	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/ticker"
)

// GameModel is the Bubble Tea model for one variant. Frame messages drive a
// ticker.Frame, so the controller only ever runs on the Bubble Tea loop.
type GameModel struct {
	variant    registry.Variant
	ctrl       *snake.Controller
	ticks      *ticker.Frame
	board      *Board
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	gen        uint64
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for the variant. recorder may be nil.
func NewGameModel(v registry.Variant, recorder snake.RunRecorder, cfg core.RuntimeConfig, logger *log.Logger) (GameModel, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = core.DefaultConfig().FPS
	}

	board := NewBoard("SNAKE · "+v.Title, v.Options.GridSize)
	ticks := ticker.NewFrame(v.Options.TickInterval)

	ctrl, err := snake.NewController(v.Options, snake.Deps{
		Variant:  v.ID,
		Renderer: board,
		Scores:   board,
		Ticks:    ticks,
		Recorder: recorder,
		Rand:     rand.New(rand.NewSource(cfg.Seed)),
		Logger:   logger,
	})
	if err != nil {
		return GameModel{}, err
	}

	return GameModel{
		variant:   v,
		ctrl:      ctrl,
		ticks:     ticks,
		board:     board,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		gen:       nextFrameGen(),
	}, nil
}

// Init starts the frame loop. The run itself waits for Enter.
func (m GameModel) Init() tea.Cmd {
	return frameCmd(m.config.FPS, m.gen)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case FrameMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.ticks.Advance(msg.At)
		return m, frameCmd(m.config.FPS, m.gen)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.ctrl.Stop()
		m.quitting = true
		return m, tea.Quit
	}

	if dir, ok := ActionDirection(action); ok {
		m.ctrl.SetDirection(dir)
		return m, nil
	}

	switch action {
	case core.ActionConfirm:
		m.ctrl.Start()
	case core.ActionBack:
		m.ctrl.Stop()
		m.backToMenu = true
	}

	return m, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.board.Draw(m.screen, m.ctrl.State())
	return RenderScreen(m.screen)
}

// Controller exposes the controller driven by this model.
func (m GameModel) Controller() *snake.Controller {
	return m.ctrl
}

// Config returns the current runtime config (may have been updated by resize).
func (m GameModel) Config() core.RuntimeConfig {
	return m.config
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
