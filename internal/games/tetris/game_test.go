package tetris

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// isolate keeps user config files and CLI overrides out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		SetConfigPath("")
		_ = SetDifficultyPreset("")
	})
}

func newGame(t *testing.T, cfg core.RuntimeConfig) *Game {
	t.Helper()
	g := New()
	g.Reset(cfg)
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestGameDeterminism(t *testing.T) {
	isolate(t)
	cfg := core.RuntimeConfig{Seed: 12345, ScreenW: 80, ScreenH: 24, TickRate: 60}
	g1 := newGame(t, cfg)
	g2 := newGame(t, cfg)

	for i := 0; i < 3000; i++ {
		var in core.InputFrame
		switch {
		case i%37 == 0:
			in = frame(core.ActionHardDrop)
		case i%11 == 0:
			in = frame(core.ActionRotateCW)
		case i%7 == 0:
			in = frame(core.ActionLeft)
		case i%5 == 0:
			in = frame(core.ActionRight)
		default:
			in = core.NewInputFrame()
		}
		g1.Step(in)
		g2.Step(in)
		require.Equal(t, g1.Snapshot(), g2.Snapshot(), "diverged at tick %d", i)
	}
	assert.Greater(t, g1.Snapshot().Pieces, 0)
}

func TestGameReset(t *testing.T) {
	isolate(t)
	g := newGame(t, core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24})

	snap := g.Snapshot()
	assert.Equal(t, engine.StateFalling.String(), snap.State)
	assert.NotEmpty(t, snap.Active)
	assert.Equal(t, -1, snap.AnchorX)
	assert.Equal(t, 8, snap.AnchorY)

	st := g.State()
	assert.Equal(t, core.GameState{Level: 1}, st)
	assert.Equal(t, ID, g.ID())
	assert.Equal(t, "Tetris", g.Title())
}

func TestGravityFollowsStepDelay(t *testing.T) {
	isolate(t)
	// 8 ticks per second keeps the accumulator exact in binary
	g := newGame(t, core.RuntimeConfig{Seed: 3, TickRate: 8})
	startY := g.Snapshot().AnchorY

	for i := 0; i < 7; i++ {
		g.Step(core.NewInputFrame())
	}
	assert.Equal(t, startY, g.Snapshot().AnchorY, "no gravity before one second")

	g.Step(core.NewInputFrame())
	assert.Equal(t, startY-1, g.Snapshot().AnchorY)

	for i := 0; i < 8; i++ {
		g.Step(core.NewInputFrame())
	}
	assert.Equal(t, startY-2, g.Snapshot().AnchorY)
}

func TestInputMovesPiece(t *testing.T) {
	isolate(t)
	g := newGame(t, core.RuntimeConfig{Seed: 5})
	start := g.Snapshot()

	g.Step(frame(core.ActionLeft))
	assert.Equal(t, start.AnchorX-1, g.Snapshot().AnchorX)

	g.Step(frame(core.ActionRight))
	g.Step(frame(core.ActionRight))
	assert.Equal(t, start.AnchorX+1, g.Snapshot().AnchorX)

	g.Step(frame(core.ActionSoftDrop))
	assert.Equal(t, start.AnchorY-1, g.Snapshot().AnchorY)

	g.Step(frame(core.ActionRotateCW))
	g.Step(frame(core.ActionRotateCW))
	g.Step(frame(core.ActionRotateCCW))
	assert.Equal(t, 1, g.Snapshot().Rotation)
}

func TestHardDropLocksPiece(t *testing.T) {
	isolate(t)
	g := newGame(t, core.RuntimeConfig{Seed: 9})
	first := g.Snapshot()

	res := g.Step(frame(core.ActionHardDrop))
	snap := g.Snapshot()
	assert.Equal(t, 1, res.State.Pieces)
	assert.Equal(t, 4, snap.Filled)
	assert.Equal(t, first.Next, snap.Active, "preview becomes the next active piece")
}

func TestSoftDropLocksOnLanding(t *testing.T) {
	isolate(t)
	g := newGame(t, core.RuntimeConfig{Seed: 9})
	first := g.Snapshot()

	landed := false
	for i := 0; i < 40 && !landed; i++ {
		res := g.Step(frame(core.ActionSoftDrop))
		landed = res.State.Pieces == 1
	}
	require.True(t, landed, "soft drop should lock the piece on the tick it lands")

	snap := g.Snapshot()
	assert.Equal(t, 4, snap.Filled)
	assert.Equal(t, engine.StateFalling.String(), snap.State)
	assert.Equal(t, first.Next, snap.Active)
	_, ok := g.Engine().GhostAnchor()
	assert.True(t, ok, "the next piece has a ghost right away")

	// the new piece takes input immediately
	x := snap.AnchorX
	g.Step(frame(core.ActionLeft))
	assert.Equal(t, x-1, g.Snapshot().AnchorX)
}

func TestFixedSpeedFromConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "tetris.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timing:\n  fixed_speed: true\n"), 0o644))
	SetConfigPath(path)

	g := newGame(t, core.RuntimeConfig{Seed: 3})
	var p engine.Progress
	for i := 0; i < 4; i++ {
		p = g.Engine().OnLinesCleared(4)
	}
	assert.Equal(t, 1600, p.Score)
	assert.Equal(t, 2, p.Level)
	assert.InDelta(t, 1.0, p.StepDelay, 1e-9)
}

func TestPauseFreezesGame(t *testing.T) {
	isolate(t)
	g := newGame(t, core.RuntimeConfig{Seed: 11, TickRate: 8})

	res := g.Step(frame(core.ActionPause))
	require.True(t, res.State.Paused)
	before := g.Snapshot()

	for i := 0; i < 100; i++ {
		g.Step(frame(core.ActionLeft, core.ActionHardDrop))
	}
	after := g.Snapshot()
	assert.Equal(t, before.AnchorX, after.AnchorX)
	assert.Equal(t, before.AnchorY, after.AnchorY)
	assert.Equal(t, 0, after.Filled)

	res = g.Step(frame(core.ActionPause))
	assert.False(t, res.State.Paused)
}

func TestGameOverAndRestart(t *testing.T) {
	isolate(t)
	g := newGame(t, core.RuntimeConfig{Seed: 21})

	// restart is ignored while playing
	g.Step(frame(core.ActionHardDrop))
	g.Step(frame(core.ActionRestart))
	require.Equal(t, 1, g.State().Pieces)

	for i := 0; i < 500 && !g.State().GameOver; i++ {
		g.Step(frame(core.ActionHardDrop))
	}
	require.True(t, g.State().GameOver)

	// nothing moves after game over, pause is ignored
	over := g.Snapshot()
	res := g.Step(frame(core.ActionPause, core.ActionLeft))
	assert.False(t, res.State.Paused)
	assert.Equal(t, over.Filled, g.Snapshot().Filled)

	g.Step(frame(core.ActionRestart))
	st := g.State()
	assert.False(t, st.GameOver)
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, 0, g.Snapshot().Filled)
}

func TestLineClearScoresAndReports(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "narrow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board:\n  width: 4\n  height: 20\n"), 0o644))
	SetConfigPath(path)

	// find a seed whose first piece is an I; on a 4-wide board it clears a row by itself
	var g *Game
	for seed := int64(1); seed < 500; seed++ {
		g = newGame(t, core.RuntimeConfig{Seed: seed})
		if g.Snapshot().Active == "I" {
			break
		}
	}
	require.Equal(t, "I", g.Snapshot().Active)

	res := g.Step(frame(core.ActionHardDrop))
	assert.Equal(t, 1, res.Cleared)
	assert.Equal(t, 75, res.State.Score)
	assert.Equal(t, 1, res.State.Lines)
	assert.Equal(t, 0, g.Snapshot().Filled)
}

func TestDifficultyPreset(t *testing.T) {
	isolate(t)
	require.Error(t, SetDifficultyPreset("nightmare"))

	require.NoError(t, SetDifficultyPreset("hard"))
	g := newGame(t, core.RuntimeConfig{Seed: 2})
	assert.InDelta(t, 0.5, g.Engine().Progress().StepDelay, 1e-9)

	require.NoError(t, SetDifficultyPreset("easy"))
	g.Reset(core.RuntimeConfig{Seed: 2})
	assert.InDelta(t, 1.5, g.Engine().Progress().StepDelay, 1e-9)
}

func TestBrokenConfigFallsBack(t *testing.T) {
	isolate(t)
	SetConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))

	g := newGame(t, core.RuntimeConfig{Seed: 4})
	assert.Equal(t, 10, g.Board().Extent().Width())
	assert.Equal(t, 20, g.Board().Extent().Height())
}

func TestGameRender(t *testing.T) {
	isolate(t)
	g := newGame(t, core.RuntimeConfig{Seed: 7, ScreenW: 80, ScreenH: 24})
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	out := screen.String()
	assert.Contains(t, out, "SCORE: 0")
	assert.Contains(t, out, "LEVEL: 1")
	assert.Contains(t, out, "NEXT")
	assert.Contains(t, out, "[]")
	assert.Equal(t, 1, strings.Count(out, "┌"), "only the board frame is drawn")

	g.Step(frame(core.ActionPause))
	g.Render(screen)
	assert.Contains(t, screen.String(), "PAUSED")
}

func TestGameRenderTooSmall(t *testing.T) {
	isolate(t)
	g := newGame(t, core.RuntimeConfig{Seed: 7, ScreenW: 20, ScreenH: 10})
	screen := core.NewScreen(20, 10)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Window too small")

	// the simulation waits for a usable window
	before := g.Snapshot()
	g.Step(frame(core.ActionHardDrop))
	assert.Equal(t, before.Filled, g.Snapshot().Filled)

	// growing the window resumes play without a reset
	g.Resize(80, 24)
	g.Step(frame(core.ActionHardDrop))
	assert.Equal(t, 4, g.Snapshot().Filled)
	assert.Equal(t, int64(7), g.Seed())
}

func TestRegistered(t *testing.T) {
	isolate(t)
	require.True(t, registry.Exists(ID))
	game, err := registry.Create(ID)
	require.NoError(t, err)
	assert.Equal(t, "Tetris", game.Title())
}
