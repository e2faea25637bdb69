package engine

// ProgressionConfig holds the score table and speed curve.
type ProgressionConfig struct {
	// LineScores maps lines cleared at once to points. Missing entries score 0.
	LineScores       map[int]int
	LevelThreshold   int     // score needed per level: level N ends at N*LevelThreshold
	InitialStepDelay float64 // seconds per gravity step at level 1
	DecreasePerLevel float64
	MinStepDelay     float64
	// FixedSpeed keeps the step delay at InitialStepDelay on level up.
	FixedSpeed bool
}

// DefaultProgressionConfig returns the classic table: 75/150/250/400 points,
// a level every 1000 points, 1s steps shrinking by 0.1s down to 0.1s.
func DefaultProgressionConfig() ProgressionConfig {
	return ProgressionConfig{
		LineScores:       map[int]int{1: 75, 2: 150, 3: 250, 4: 400},
		LevelThreshold:   1000,
		InitialStepDelay: 1.0,
		DecreasePerLevel: 0.1,
		MinStepDelay:     0.1,
	}
}

// Progress is the externally visible progression state.
type Progress struct {
	Score     int
	Level     int
	StepDelay float64
	Lines     int
}

// Progression converts line clears into score, level and fall speed.
type Progression struct {
	cfg       ProgressionConfig
	score     int
	level     int
	stepDelay float64
	lines     int
}

// NewProgression starts at score 0, level 1 and the initial step delay.
func NewProgression(cfg ProgressionConfig) *Progression {
	if cfg.LevelThreshold <= 0 {
		cfg.LevelThreshold = 1000
	}
	return &Progression{
		cfg:       cfg,
		level:     1,
		stepDelay: cfg.InitialStepDelay,
	}
}

// OnLinesCleared adds the score for n simultaneous lines and applies every
// level-up the new score reaches. n = 0 changes nothing.
func (p *Progression) OnLinesCleared(n int) Progress {
	if n <= 0 {
		return p.Progress()
	}
	p.lines += n
	p.score += p.cfg.LineScores[n]

	for p.score >= p.level*p.cfg.LevelThreshold {
		p.level++
		if p.cfg.FixedSpeed {
			continue
		}
		p.stepDelay -= p.cfg.DecreasePerLevel
		if p.stepDelay < p.cfg.MinStepDelay {
			p.stepDelay = p.cfg.MinStepDelay
		}
	}
	return p.Progress()
}

// Progress returns the current state.
func (p *Progression) Progress() Progress {
	return Progress{
		Score:     p.score,
		Level:     p.level,
		StepDelay: p.stepDelay,
		Lines:     p.lines,
	}
}
