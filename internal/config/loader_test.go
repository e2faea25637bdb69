package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tetris.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseTetris(defaultTetrisYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultTetrisConfig(), cfg)
}

func TestLoadTetrisFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadTetris("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTetrisConfig(), cfg)
}

func TestLoadTetrisUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".arcade", "configs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tetris.yaml"), []byte("board:\n  width: 12\n"), 0o644))

	cfg, err := LoadTetris("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Board.Width)
	assert.Equal(t, 20, cfg.Board.Height)
}

func TestLoadTetrisCustomPartial(t *testing.T) {
	path := writeConfig(t, `
timing:
  initial_step_delay: 0.8
scoring:
  line_scores:
    1: 100
    4: 800
`)
	cfg, err := LoadTetris(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.8, cfg.Timing.InitialStepDelay, 1e-9)
	assert.InDelta(t, 0.1, cfg.Timing.MinStepDelay, 1e-9, "unset keys keep defaults")
	assert.Equal(t, map[int]int{1: 100, 4: 800}, cfg.Scoring.LineScores, "file table replaces the default")
	assert.Equal(t, 10, cfg.Board.Width)
}

func TestLoadTetrisCustomErrors(t *testing.T) {
	_, err := LoadTetris(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadTetris(writeConfig(t, "board: [not, a, map]"))
	require.Error(t, err)

	_, err = LoadTetris(writeConfig(t, "board:\n  width: 0\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TetrisConfig)
		ok     bool
	}{
		{"defaults", func(*TetrisConfig) {}, true},
		{"zero height", func(c *TetrisConfig) { c.Board.Height = 0 }, false},
		{"spawn above board", func(c *TetrisConfig) { c.Spawn.Y = 10 }, false},
		{"spawn on bottom row", func(c *TetrisConfig) { c.Spawn.Y = -10 }, true},
		{"spawn left of board", func(c *TetrisConfig) { c.Spawn.X = -6 }, false},
		{"zero delay", func(c *TetrisConfig) { c.Timing.InitialStepDelay = 0 }, false},
		{"floor above start", func(c *TetrisConfig) { c.Timing.MinStepDelay = 2 }, false},
		{"negative decrease", func(c *TetrisConfig) { c.Timing.DecreasePerLevel = -0.1 }, false},
		{"zero threshold", func(c *TetrisConfig) { c.Scoring.LevelThreshold = 0 }, false},
		{"negative points", func(c *TetrisConfig) { c.Scoring.LineScores = map[int]int{1: -5} }, false},
		{"unknown preset", func(c *TetrisConfig) { c.Difficulty.Preset = "insane" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultTetrisConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
		ok   bool
	}{
		{"", DifficultyNormal, true},
		{"easy", DifficultyEasy, true},
		{" HARD ", DifficultyHard, true},
		{"fixed", DifficultyFixed, true},
		{"nightmare", "", false},
	}
	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidConfig, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestApplyTetrisPreset(t *testing.T) {
	cfg := DefaultTetrisConfig()
	ApplyTetrisPreset(&cfg, DifficultyHard)
	assert.InDelta(t, 0.5, cfg.Timing.InitialStepDelay, 1e-9)
	assert.False(t, cfg.Timing.FixedSpeed)
	assert.NoError(t, cfg.Validate())

	cfg = DefaultTetrisConfig()
	ApplyTetrisPreset(&cfg, DifficultyFixed)
	assert.True(t, cfg.Timing.FixedSpeed)
	assert.InDelta(t, 1.0, cfg.Timing.InitialStepDelay, 1e-9)

	// the floor never ends up above the starting delay
	cfg = DefaultTetrisConfig()
	cfg.Timing.InitialStepDelay = 0.15
	ApplyTetrisPreset(&cfg, DifficultyHard)
	assert.LessOrEqual(t, cfg.Timing.MinStepDelay, cfg.Timing.InitialStepDelay)

	// a file-level fixed_speed survives any preset
	for _, preset := range []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard} {
		cfg = DefaultTetrisConfig()
		cfg.Timing.FixedSpeed = true
		ApplyTetrisPreset(&cfg, preset)
		assert.True(t, cfg.Timing.FixedSpeed, "preset %s", preset)
	}
}
