// Package tetris adapts the tetris engine to the arcade host loop: it turns
// fixed-rate ticks and input actions into engine calls and draws the board
// into a core.Screen.
package tetris

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// ID is the registry identifier of the game.
const ID = "tetris"

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset overrides the preset from the config file.
// An empty string keeps the file's preset.
func SetDifficultyPreset(preset string) error {
	if preset == "" {
		difficultyPreset = ""
		return nil
	}
	p, err := config.ParseDifficulty(preset)
	if err != nil {
		return err
	}
	difficultyPreset = p
	return nil
}

// Game implements registry.Game on top of engine.Engine.
type Game struct {
	cfg    config.TetrisConfig
	eng    *engine.Engine
	rng    *rand.Rand
	logger *log.Logger

	runtime core.RuntimeConfig
	tick    uint64
	// seconds of gravity owed to the engine
	elapsed float64

	// rows cleared during the current Step, fed by the listener
	tickCleared int
}

// New creates a tetris game. Call Reset before use.
func New() *Game {
	return &Game{logger: log.New(io.Discard)}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// SetLogger attaches a logger for lifecycle events.
func (g *Game) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	g.logger = l
}

// ID returns the game identifier.
func (g *Game) ID() string { return ID }

// Title returns the display name.
func (g *Game) Title() string { return "Tetris" }

// Reset loads configuration and starts a fresh game seeded from runtime.Seed.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = core.DefaultConfig().TickRate
	}
	g.runtime = runtime
	g.tick = 0
	g.elapsed = 0
	g.tickCleared = 0

	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		g.logger.Warn("falling back to default config", "path", configPath, "err", err)
		cfg = config.DefaultTetrisConfig()
	}
	preset := cfg.Difficulty.Preset
	if difficultyPreset != "" {
		preset = difficultyPreset
	}
	if preset != "" {
		config.ApplyTetrisPreset(&cfg, preset)
	}

	g.rng = rand.New(rand.NewSource(runtime.Seed))
	eng, err := engine.New(engineConfig(cfg), g.rng, engine.WithListener(g))
	if err != nil {
		g.logger.Warn("config rejected by engine, using defaults", "err", err)
		cfg = config.DefaultTetrisConfig()
		eng, err = engine.New(engineConfig(cfg), g.rng, engine.WithListener(g))
		if err != nil {
			// built-in defaults always fit
			panic(err)
		}
	}
	g.cfg = cfg
	g.eng = eng
	g.eng.SpawnPiece()

	g.logger.Debug("game reset", "seed", runtime.Seed, "preset", cfg.Difficulty.Preset,
		"board", cfg.Board, "step_delay", cfg.Timing.InitialStepDelay)
}

// Resize updates the screen size without restarting the game.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
}

// Seed returns the seed the current game was started with.
func (g *Game) Seed() int64 {
	return g.runtime.Seed
}

// engineConfig converts the YAML settings into engine parameters.
func engineConfig(cfg config.TetrisConfig) engine.Config {
	scores := make(map[int]int, len(cfg.Scoring.LineScores))
	for lines, points := range cfg.Scoring.LineScores {
		scores[lines] = points
	}
	return engine.Config{
		Width:  cfg.Board.Width,
		Height: cfg.Board.Height,
		Spawn:  engine.Vec{X: cfg.Spawn.X, Y: cfg.Spawn.Y},
		Progression: engine.ProgressionConfig{
			LineScores:       scores,
			LevelThreshold:   cfg.Scoring.LevelThreshold,
			InitialStepDelay: cfg.Timing.InitialStepDelay,
			DecreasePerLevel: cfg.Timing.DecreasePerLevel,
			MinStepDelay:     cfg.Timing.MinStepDelay,
			FixedSpeed:       cfg.Timing.FixedSpeed,
		},
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.tickCleared = 0

	if in.Has(core.ActionRestart) && (g.eng.GameOver() || g.eng.Paused()) {
		g.Reset(core.RuntimeConfig{
			ScreenW:  g.runtime.ScreenW,
			ScreenH:  g.runtime.ScreenH,
			TickRate: g.runtime.TickRate,
			Seed:     g.rng.Int63(),
		})
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.eng.GameOver() {
		paused := g.eng.TogglePause()
		g.logger.Debug("pause toggled", "paused", paused)
	}

	if !g.eng.AcceptingTicks() || g.tooSmall() {
		return core.StepResult{State: g.State()}
	}

	g.applyInput(in)

	// gravity: one engine step per elapsed step delay
	g.elapsed += 1 / float64(g.runtime.TickRate)
	if delay := g.eng.Progress().StepDelay; g.elapsed >= delay {
		g.elapsed -= delay
		if g.elapsed > delay {
			g.elapsed = 0
		}
		g.eng.Step()
	}

	return core.StepResult{State: g.State(), Cleared: g.tickCleared}
}

func (g *Game) applyInput(in core.InputFrame) {
	if in.Has(core.ActionLeft) {
		g.eng.AttemptMove(engine.Left)
	}
	if in.Has(core.ActionRight) {
		g.eng.AttemptMove(engine.Right)
	}
	if in.Has(core.ActionRotateCW) {
		g.eng.AttemptRotate(engine.Clockwise)
	}
	if in.Has(core.ActionRotateCCW) {
		g.eng.AttemptRotate(engine.CounterClockwise)
	}
	switch {
	case in.Has(core.ActionHardDrop):
		g.eng.HardDrop()
		g.elapsed = 0
	case in.Has(core.ActionSoftDrop):
		if !g.eng.AttemptMove(engine.Down) {
			// landed: settle now instead of waiting for the next gravity step
			g.eng.Step()
		}
		g.elapsed = 0
	}
}

// State returns the HUD numbers and session flags.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	p := g.eng.Progress()
	return core.GameState{
		Score:    p.Score,
		Level:    p.Level,
		Lines:    p.Lines,
		Pieces:   g.eng.Stats().Locked,
		GameOver: g.eng.GameOver(),
		Paused:   g.eng.Paused(),
	}
}

// Engine exposes the underlying engine, mainly for tests and statistics.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// OnLocked implements engine.Listener.
func (g *Game) OnLocked(engine.PieceKind, []engine.Vec) {}

// OnLinesCleared implements engine.Listener.
func (g *Game) OnLinesCleared(n int, p engine.Progress) {
	g.tickCleared += n
	g.logger.Debug("lines cleared", "lines", n, "score", p.Score, "level", p.Level)
}

// OnGameOver implements engine.Listener.
func (g *Game) OnGameOver(p engine.Progress) {
	g.logger.Info("game over", "score", p.Score, "level", p.Level, "lines", p.Lines, "ticks", g.tick)
}
