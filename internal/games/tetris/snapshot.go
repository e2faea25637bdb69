package tetris

import "github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick     uint64
	State    string
	Score    int
	Level    int
	Lines    int
	Pieces   int
	Active   string // kind of the falling piece, empty when none
	AnchorX  int
	AnchorY  int
	Rotation int
	Next     string
	Filled   int // occupied board cells
	Paused   bool
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	p := g.eng.Progress()
	s := Snapshot{
		Tick:   g.tick,
		State:  g.eng.State().String(),
		Score:  p.Score,
		Level:  p.Level,
		Lines:  p.Lines,
		Pieces: g.eng.Stats().Locked,
		Next:   g.eng.Next().String(),
		Filled: g.eng.BoardSnapshot().Filled(),
		Paused: g.eng.Paused(),
	}
	if a := g.eng.Active(); a != nil {
		s.Active = a.Kind().String()
		s.AnchorX, s.AnchorY = a.Anchor().X, a.Anchor().Y
		s.Rotation = a.Rotation()
	}
	return s
}

// Board returns a copy of the board contents.
func (g *Game) Board() engine.BoardSnapshot {
	return g.eng.BoardSnapshot()
}
