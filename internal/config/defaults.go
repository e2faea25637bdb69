package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the default tetris configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: TetrisBoard{
			Width:  10,
			Height: 20,
		},
		Spawn: TetrisSpawn{
			X: -1,
			Y: 8,
		},
		Timing: TetrisTiming{
			InitialStepDelay: 1.0,
			DecreasePerLevel: 0.1,
			MinStepDelay:     0.1,
		},
		Scoring: TetrisScoring{
			LevelThreshold: 1000,
			LineScores: map[int]int{
				1: 75,
				2: 150,
				3: 250,
				4: 400,
			},
		},
		Difficulty: DifficultyConfig{
			Preset: DifficultyNormal,
		},
	}
}
