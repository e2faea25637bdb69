package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty maps a flag value to a preset. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q (easy|normal|hard|fixed)", ErrInvalidConfig, s)
	}
}

// IsFixedPreset returns true if the preset disables speed-up on level change.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// StepDelayScale returns the factor applied to the configured starting step delay.
func StepDelayScale(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 1.5
	case DifficultyHard:
		return 0.5
	default:
		return 1.0
	}
}

// ApplyTetrisPreset modifies the config based on a difficulty preset.
// The fixed preset turns FixedSpeed on; no preset turns it off.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset
	cfg.Timing.FixedSpeed = cfg.Timing.FixedSpeed || IsFixedPreset(preset)
	cfg.Timing.InitialStepDelay *= StepDelayScale(preset)
	if cfg.Timing.MinStepDelay > cfg.Timing.InitialStepDelay {
		cfg.Timing.MinStepDelay = cfg.Timing.InitialStepDelay
	}
}
