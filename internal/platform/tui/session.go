package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// loggable is implemented by games that accept a logger.
type loggable interface {
	SetLogger(l *log.Logger)
}

// SessionModel manages a play session: game -> history -> game.
// It is the top-level model for both local and SSH play.
type SessionModel struct {
	gameID    string
	deps      Deps
	history   RunLister
	config    core.RuntimeConfig
	game      GameModel
	runs      HistoryModel
	inHistory bool
	quitting  bool
}

// NewSessionModel creates a session around game. history may be nil when
// no journal is available.
func NewSessionModel(game registry.Game, deps Deps, history RunLister, cfg core.RuntimeConfig) SessionModel {
	if l, ok := game.(loggable); ok && deps.Logger != nil {
		l.SetLogger(deps.Logger)
	}
	return SessionModel{
		gameID:  game.ID(),
		deps:    deps,
		history: history,
		config:  cfg,
		game:    NewGameModel(game, deps, cfg),
	}
}

// Init starts the first game and the tick loop.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		// both screens track the size so switching never shows a stale layout
		m.game = m.updateGame(msg)
		if m.inHistory {
			m.runs = m.updateHistory(msg)
		}
		return m, nil

	case TickMsg:
		// the tick loop belongs to the game and keeps running behind the history screen
		next, cmd := m.game.Update(msg)
		m.game = next.(GameModel)
		return m, cmd
	}

	if m.inHistory {
		return m.handleHistory(msg)
	}
	return m.handleGame(msg)
}

func (m SessionModel) updateGame(msg tea.Msg) GameModel {
	next, _ := m.game.Update(msg)
	return next.(GameModel)
}

func (m SessionModel) updateHistory(msg tea.Msg) HistoryModel {
	next, _ := m.runs.Update(msg)
	return next.(HistoryModel)
}

func (m SessionModel) handleGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(GameModel)

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackRequested():
		m.game.backRequested = false
		m.runs = NewHistoryModel(m.history, m.gameID, m.config.ScreenW, m.config.ScreenH)
		m.inHistory = true
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) handleHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.runs.Update(msg)
	m.runs = next.(HistoryModel)

	switch {
	case m.runs.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.runs.PlayRequested():
		m.inHistory = false
		if err := m.newGame(); err != nil {
			m.deps.Logger.Error("could not start a new game", "game", m.gameID, "err", err)
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case m.runs.IsGoingBack():
		m.inHistory = false
		return m, nil
	}
	return m, cmd
}

// newGame replaces the current game with a fresh instance. The running
// tick loop carries over, so Init's command is dropped.
func (m *SessionModel) newGame() error {
	game, err := registry.Create(m.gameID)
	if err != nil {
		return err
	}
	if l, ok := game.(loggable); ok && m.deps.Logger != nil {
		l.SetLogger(m.deps.Logger)
	}
	cfg := m.config
	cfg.Seed = 0
	m.game = NewGameModel(game, m.deps, cfg)
	m.game.Init()
	return nil
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inHistory {
		return m.runs.View()
	}
	return m.game.View()
}

// Game returns the current game model.
func (m SessionModel) Game() GameModel {
	return m.game
}

// InHistory reports whether the history screen is shown.
func (m SessionModel) InHistory() bool {
	return m.inHistory
}

// Result summarizes a finished local session.
type Result struct {
	State     core.GameState
	Elapsed   time.Duration
	LastRunID string
}

// Run starts a local Bubble Tea program for game and blocks until it exits.
func Run(game registry.Game, deps Deps, history RunLister, cfg core.RuntimeConfig) (Result, error) {
	model := NewSessionModel(game, deps, history, cfg)

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return Result{}, err
	}

	m, ok := finalModel.(SessionModel)
	if !ok {
		return Result{}, nil
	}
	g := m.Game()
	return Result{
		State:     g.State(),
		Elapsed:   g.Elapsed(),
		LastRunID: g.LastRunID(),
	}, nil
}
