package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/registry"
	"github.com/vovakirdan/gridsnake/internal/snake"
)

// Ledger is the run ledger as the terminal front end uses it.
type Ledger interface {
	RunSource
	snake.RunRecorder
}

// Resolver turns a variant ID into the options to play it with.
type Resolver func(id string) (registry.Variant, error)

// AppOptions configures an AppModel.
type AppOptions struct {
	Ledger  Ledger // may be nil
	Config  core.RuntimeConfig
	Variant string   // Variant the menu starts on
	Direct  bool     // Skip the menu and play Variant immediately
	Resolve Resolver // Defaults to registry.Get
	Logger  *log.Logger
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenGame
	screenScoreboard
)

// AppModel manages the full flow: menu -> game -> menu, with the scoreboard
// reachable from the menu. It is the top-level model for local play and for
// every SSH session.
type AppModel struct {
	opts       AppOptions
	config     core.RuntimeConfig
	variant    string
	screen     appScreen
	menu       MenuModel
	game       *GameModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewAppModel creates the top-level model.
func NewAppModel(opts AppOptions) AppModel {
	if opts.Resolve == nil {
		opts.Resolve = registry.Get
	}
	if opts.Variant == "" {
		opts.Variant = registry.DefaultVariant
	}

	return AppModel{
		opts:    opts,
		config:  opts.Config,
		variant: opts.Variant,
		menu:    NewMenuModel(opts.Config, opts.Variant),
	}
}

// Init initializes the app. Direct play begins on the first Update.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the current screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	// Direct play starts on the first message, which Bubble Tea sends as
	// soon as the program runs (the initial window size).
	if m.opts.Direct {
		m.opts.Direct = false
		if cmd, ok := m.startGame(m.variant); ok {
			return m, cmd
		}
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m *AppModel) startGame(id string) (tea.Cmd, bool) {
	v, err := m.opts.Resolve(id)
	if err == nil {
		var gm GameModel
		gm, err = NewGameModel(v, m.opts.Ledger, m.config, m.opts.Logger)
		if err == nil {
			m.variant = id
			m.game = &gm
			m.screen = screenGame
			return gm.Init(), true
		}
	}

	if m.opts.Logger != nil {
		m.opts.Logger.Error("cannot start variant", "variant", id, "error", err)
	}
	return nil, false
}

func (m *AppModel) showMenu() tea.Cmd {
	m.screen = screenMenu
	m.game = nil
	m.menu = NewMenuModel(m.config, m.variant)
	return m.menu.Init()
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		var source RunSource
		if m.opts.Ledger != nil {
			source = m.opts.Ledger
		}
		m.scoreboard = NewScoreboardModel(source, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		if cmd, ok := m.startGame(m.menu.Selected().ID); ok {
			return m, cmd
		}
		return m, m.showMenu()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m, m.showMenu()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is shown.
func (m AppModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m, m.showMenu()
	}

	return m, cmd
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}

// Run starts a local Bubble Tea program with the app model.
func Run(opts AppOptions) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
