// Package config provides YAML-based configuration loading and difficulty
// presets for the tetris game.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("config: invalid tetris config")

// TetrisConfig contains all configuration for the tetris game.
type TetrisConfig struct {
	Board      TetrisBoard      `yaml:"board"`
	Spawn      TetrisSpawn      `yaml:"spawn"`
	Timing     TetrisTiming     `yaml:"timing"`
	Scoring    TetrisScoring    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TetrisBoard defines the playfield size in cells.
type TetrisBoard struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TetrisSpawn is the anchor new pieces appear at, in board coordinates
// (origin at the board center, y up).
type TetrisSpawn struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// TetrisTiming defines gravity speed in seconds per step.
type TetrisTiming struct {
	InitialStepDelay float64 `yaml:"initial_step_delay"`
	DecreasePerLevel float64 `yaml:"decrease_per_level"`
	MinStepDelay     float64 `yaml:"min_step_delay"`
	FixedSpeed       bool    `yaml:"fixed_speed"`
}

// TetrisScoring defines points per clear and the level threshold.
type TetrisScoring struct {
	LevelThreshold int         `yaml:"level_threshold"`
	LineScores     map[int]int `yaml:"line_scores"`
}

// DifficultyConfig selects a named preset.
type DifficultyConfig struct {
	Preset DifficultyPreset `yaml:"preset"`
}

// Validate reports the first unusable setting, wrapped in ErrInvalidConfig.
func (c TetrisConfig) Validate() error {
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("%w: board size %dx%d", ErrInvalidConfig, c.Board.Width, c.Board.Height)
	}

	// board spans [-w/2, w-w/2) x [-h/2, h-h/2)
	xMin, yMin := -(c.Board.Width / 2), -(c.Board.Height / 2)
	xMax, yMax := xMin+c.Board.Width, yMin+c.Board.Height
	if c.Spawn.X < xMin || c.Spawn.X >= xMax || c.Spawn.Y < yMin || c.Spawn.Y >= yMax {
		return fmt.Errorf("%w: spawn (%d,%d) outside board", ErrInvalidConfig, c.Spawn.X, c.Spawn.Y)
	}

	if c.Timing.InitialStepDelay <= 0 || c.Timing.MinStepDelay <= 0 {
		return fmt.Errorf("%w: step delays must be positive", ErrInvalidConfig)
	}
	if c.Timing.DecreasePerLevel < 0 {
		return fmt.Errorf("%w: negative decrease_per_level", ErrInvalidConfig)
	}
	if c.Timing.MinStepDelay > c.Timing.InitialStepDelay {
		return fmt.Errorf("%w: min_step_delay above initial_step_delay", ErrInvalidConfig)
	}
	if c.Scoring.LevelThreshold <= 0 {
		return fmt.Errorf("%w: level_threshold must be positive", ErrInvalidConfig)
	}
	if c.Difficulty.Preset != "" {
		if _, err := ParseDifficulty(string(c.Difficulty.Preset)); err != nil {
			return err
		}
	}
	for lines, points := range c.Scoring.LineScores {
		if lines < 1 || points < 0 {
			return fmt.Errorf("%w: line score %d:%d", ErrInvalidConfig, lines, points)
		}
	}
	return nil
}
