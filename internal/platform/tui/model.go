package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/metrics"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// helpHeight is the number of rows reserved below the game for the help bar.
const helpHeight = 1

// RunRecorder persists finished games. *storage.Store satisfies it.
type RunRecorder interface {
	SaveRun(r storage.Run) (string, error)
}

// resizer is implemented by games that can follow a window resize
// without restarting.
type resizer interface {
	Resize(w, h int)
}

// seeded is implemented by games that report the seed of the current run.
type seeded interface {
	Seed() int64
}

// Deps bundles the optional collaborators of a GameModel.
// Zero values disable the corresponding feature.
type Deps struct {
	Recorder RunRecorder
	Metrics  *metrics.Metrics
	Logger   *log.Logger
	// Renderer binds colors to a client terminal; nil uses the local one.
	Renderer *lipgloss.Renderer
}

// GameModel is the Bubble Tea model that hosts a single game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	deps       Deps
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	palette    Palette

	// ticks since the current run started
	ticks     uint64
	lastRunID string

	quitting      bool
	backRequested bool
	recorded      bool
}

// NewGameModel creates a model for game sized to cfg.
func NewGameModel(game registry.Game, deps Deps, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, playHeight(cfg.ScreenH)),
		deps:       deps,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		palette:    NewPalette(deps.Renderer),
	}
}

func playHeight(h int) int {
	return max(h-helpHeight, 0)
}

// gameConfig is the runtime config as seen by the game: the help bar
// takes rows away from the play area.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = playHeight(cfg.ScreenH)
	return cfg
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backRequested = true
		}
		return m, nil
	case action == core.ActionRestart:
		// restart is handled here so the new seed is known to the journal
		if m.gameState.GameOver || m.gameState.Paused {
			m.restart()
		}
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}
	return m, nil
}

func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, playHeight(msg.Height))
	m.help.Width = msg.Width

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, playHeight(msg.Height))
	} else if !m.gameState.GameOver {
		m.game.Reset(m.gameConfig())
	}
	return m, nil
}

func (m *GameModel) restart() {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.gameConfig())
	m.gameState = m.game.State()
	m.ticks = 0
	m.recorded = false
	m.inputFrame.Clear()
	m.deps.Logger.Debug("game restarted", "seed", m.config.Seed)
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if !m.gameState.Paused && !m.gameState.GameOver {
		m.ticks++
	}
	if result.Cleared > 0 {
		m.deps.Metrics.LinesCleared(result.Cleared)
	}
	if m.gameState.GameOver && !m.recorded {
		m.recordRun()
	}

	return m, tickCmd(m.config.TickRate)
}

// recordRun journals the finished game once per run.
func (m *GameModel) recordRun() {
	m.recorded = true
	st := m.gameState
	m.deps.Metrics.GameFinished(st.Level, st.Score)

	if m.deps.Recorder == nil {
		return
	}
	seed := m.config.Seed
	if s, ok := m.game.(seeded); ok {
		seed = s.Seed()
	}
	run := storage.Run{
		GameID:   m.game.ID(),
		Seed:     seed,
		Score:    st.Score,
		Level:    st.Level,
		Lines:    st.Lines,
		Pieces:   st.Pieces,
		Duration: m.Elapsed(),
	}
	id, err := m.deps.Recorder.SaveRun(run)
	if err != nil {
		m.deps.Logger.Warn("could not save run", "game", run.GameID, "score", run.Score, "err", err)
		return
	}
	m.lastRunID = id
	m.deps.Logger.Info("run saved", "id", id, "score", run.Score, "level", run.Level, "lines", run.Lines)
}

// View renders the game and the help bar.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return m.palette.RenderScreen(m.screen) + "\n" + m.help.View(m.keyMapper.Keys())
}

// Elapsed returns the in-game time of the current run, excluding pauses.
func (m GameModel) Elapsed() time.Duration {
	return time.Duration(m.ticks) * time.Second / time.Duration(m.config.TickRate)
}

// State returns the game state as of the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// LastRunID returns the journal id of the most recent recorded run.
func (m GameModel) LastRunID() string {
	return m.lastRunID
}

// IsQuitting returns true if the user asked to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackRequested returns true if the user asked for the run history.
func (m GameModel) BackRequested() bool {
	return m.backRequested
}
