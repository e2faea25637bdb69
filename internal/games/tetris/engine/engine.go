// Package engine implements the falling-block simulation: the piece catalog,
// the board grid, placement validation, line clearing and score progression.
// It has no terminal, timing or storage dependencies; a host loop drives it by
// calling Step at the current step delay and the move/rotate methods on input.
package engine

import (
	"errors"
	"fmt"

	"github.com/kamstrup/intmap"
)

// ErrInvalidConfig is returned for unusable engine configuration.
var ErrInvalidConfig = errors.New("engine: invalid config")

// State is the lifecycle state of the current piece.
type State int

const (
	StateSpawning State = iota
	StateFalling
	StateLocked
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateFalling:
		return "falling"
	case StateLocked:
		return "locked"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// RandSource picks piece kinds. *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// Listener receives engine events. Any method may be left as a no-op.
type Listener interface {
	OnLocked(kind PieceKind, cells []Vec)
	OnLinesCleared(n int, p Progress)
	OnGameOver(p Progress)
}

// Config is the engine construction parameters.
type Config struct {
	Width, Height int
	Spawn         Vec
	Progression   ProgressionConfig
}

// DefaultConfig returns a 10x20 board spawning at (-1, 8).
func DefaultConfig() Config {
	return Config{
		Width:       10,
		Height:      20,
		Spawn:       Vec{X: -1, Y: 8},
		Progression: DefaultProgressionConfig(),
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithCatalog replaces the default piece catalog.
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithListener attaches an event listener.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// SpawnResult reports the outcome of SpawnPiece.
type SpawnResult struct {
	Piece    *ActivePiece
	GameOver bool
}

// StepOutcome summarizes one gravity step or hard drop.
type StepOutcome struct {
	Moved    bool
	Dropped  int // rows fallen during a hard drop
	Locked   bool
	Cleared  int
	Progress Progress
	GameOver bool
}

// Engine owns the board, the active piece and the progression state.
// It is not safe for concurrent use.
type Engine struct {
	cfg         Config
	catalog     *Catalog
	board       *Board
	progression *Progression
	rng         RandSource
	listener    Listener

	active *ActivePiece
	next   PieceKind
	state  State
	paused bool

	spawned *intmap.Map[PieceKind, int]
	locked  int
}

// New builds an engine. The catalog must be able to spawn every kind on an
// empty board at cfg.Spawn, otherwise ErrInvalidConfig is returned.
func New(cfg Config, rng RandSource, opts ...Option) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: board size %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}

	e := &Engine{
		cfg:         cfg,
		board:       NewBoard(cfg.Width, cfg.Height),
		progression: NewProgression(cfg.Progression),
		rng:         rng,
		state:       StateSpawning,
		spawned:     intmap.New[PieceKind, int](NumKinds),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = MustDefaultCatalog()
	}

	for k := range PieceKind(e.catalog.Len()) {
		if !e.board.IsValidPosition(e.catalog.Shape(k).Cells(0), cfg.Spawn) {
			return nil, fmt.Errorf("%w: %s does not fit at spawn %+v", ErrInvalidConfig, k, cfg.Spawn)
		}
	}

	e.next = e.draw()
	return e, nil
}

func (e *Engine) draw() PieceKind {
	return PieceKind(e.rng.Intn(e.catalog.Len()))
}

// SpawnPiece makes the previewed kind active at the spawn point and draws a
// new preview. If the spawn point is blocked the game is over.
func (e *Engine) SpawnPiece() SpawnResult {
	if e.state == StateGameOver {
		return SpawnResult{GameOver: true}
	}

	kind := e.next
	e.next = e.draw()
	count, _ := e.spawned.Get(kind)
	e.spawned.Put(kind, count+1)

	piece := &ActivePiece{shape: e.catalog.Shape(kind), anchor: e.cfg.Spawn}
	e.active = piece
	if !e.board.IsValidPosition(piece.Cells(), piece.anchor) {
		e.state = StateGameOver
		if e.listener != nil {
			e.listener.OnGameOver(e.progression.Progress())
		}
		return SpawnResult{GameOver: true}
	}

	e.state = StateFalling
	return SpawnResult{Piece: piece}
}

// AttemptMove shifts the active piece by delta if the target is valid. A
// rejected Down move puts the piece into StateLocked; LockActivePiece then
// writes it into the board.
func (e *Engine) AttemptMove(delta Vec) bool {
	if e.state != StateFalling || e.paused {
		return false
	}
	target := e.active.anchor.Add(delta)
	if e.board.IsValidPosition(e.active.Cells(), target) {
		e.active.anchor = target
		return true
	}
	if delta == Down {
		e.state = StateLocked
	}
	return false
}

// AttemptRotate rotates the active piece one step in dir, trying each wall
// kick for the transition in order. Nothing changes if no kick fits.
func (e *Engine) AttemptRotate(dir Direction) bool {
	if e.state != StateFalling || e.paused {
		return false
	}
	from := e.active.rotation
	to := wrap(from+int(dir), 4)
	cells := e.active.shape.Cells(to)

	for _, kick := range e.active.shape.Kicks(Transition{From: from, To: to}) {
		target := e.active.anchor.Add(kick)
		if e.board.IsValidPosition(cells, target) {
			e.active.anchor = target
			e.active.rotation = to
			return true
		}
	}
	return false
}

// LockActivePiece writes the active piece into the board and returns the
// cells it occupied. It returns nil when there is no piece to lock.
func (e *Engine) LockActivePiece() []Vec {
	if e.active == nil || (e.state != StateFalling && e.state != StateLocked) {
		return nil
	}
	positions := e.active.Positions()
	tile := e.active.Kind().Tile()
	for _, p := range positions {
		e.board.Set(p.X, p.Y, tile)
	}

	kind := e.active.Kind()
	e.active = nil
	e.state = StateLocked
	e.locked++

	cells := positions[:]
	if e.listener != nil {
		e.listener.OnLocked(kind, cells)
	}
	return cells
}

// ClearLines removes full rows from the board.
func (e *Engine) ClearLines() int {
	return e.board.ClearLines()
}

// OnLinesCleared feeds a clear count into the progression state.
func (e *Engine) OnLinesCleared(n int) Progress {
	p := e.progression.OnLinesCleared(n)
	if n > 0 && e.listener != nil {
		e.listener.OnLinesCleared(n, p)
	}
	return p
}

// Step performs one gravity tick: spawn if nothing is active, otherwise move
// down, and on landing lock, clear, score and spawn the next piece.
func (e *Engine) Step() StepOutcome {
	if !e.AcceptingTicks() {
		return StepOutcome{Progress: e.progression.Progress(), GameOver: e.state == StateGameOver}
	}
	if e.state == StateSpawning {
		res := e.SpawnPiece()
		return StepOutcome{Progress: e.progression.Progress(), GameOver: res.GameOver}
	}
	if e.state == StateFalling && e.AttemptMove(Down) {
		return StepOutcome{Moved: true, Progress: e.progression.Progress()}
	}
	return e.settle()
}

// HardDrop moves the active piece straight down as far as it goes and locks it.
func (e *Engine) HardDrop() StepOutcome {
	if e.state != StateFalling || e.paused {
		return StepOutcome{Progress: e.progression.Progress(), GameOver: e.state == StateGameOver}
	}
	dropped := 0
	for e.AttemptMove(Down) {
		dropped++
	}
	out := e.settle()
	out.Dropped = dropped
	return out
}

// settle runs lock, clear, score and spawn for a landed piece.
func (e *Engine) settle() StepOutcome {
	e.LockActivePiece()
	n := e.ClearLines()
	p := e.OnLinesCleared(n)
	res := e.SpawnPiece()
	return StepOutcome{
		Locked:   true,
		Cleared:  n,
		Progress: p,
		GameOver: res.GameOver,
	}
}

// GhostAnchor returns the anchor where the active piece would land.
func (e *Engine) GhostAnchor() (Vec, bool) {
	if e.active == nil || e.state != StateFalling {
		return Vec{}, false
	}
	cells := e.active.Cells()
	anchor := e.active.anchor
	for e.board.IsValidPosition(cells, anchor.Add(Down)) {
		anchor = anchor.Add(Down)
	}
	return anchor, true
}

// Pause stops the engine from accepting ticks and moves.
func (e *Engine) Pause() {
	e.paused = true
}

// Resume undoes Pause.
func (e *Engine) Resume() {
	e.paused = false
}

// TogglePause flips the paused flag and returns the new value. It has no
// effect after game over.
func (e *Engine) TogglePause() bool {
	if e.state == StateGameOver {
		return e.paused
	}
	e.paused = !e.paused
	return e.paused
}

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// AcceptingTicks reports whether Step does anything: false when paused or
// after game over.
func (e *Engine) AcceptingTicks() bool {
	return !e.paused && e.state != StateGameOver
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// GameOver reports whether the stack topped out.
func (e *Engine) GameOver() bool {
	return e.state == StateGameOver
}

// Active returns the active piece, or nil between lock and spawn.
func (e *Engine) Active() *ActivePiece {
	return e.active
}

// Next returns the kind that will spawn next.
func (e *Engine) Next() PieceKind {
	return e.next
}

// Catalog returns the piece catalog in use.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Progress returns the score, level and step delay.
func (e *Engine) Progress() Progress {
	return e.progression.Progress()
}

// BoardSnapshot returns a read-only copy of the board.
func (e *Engine) BoardSnapshot() BoardSnapshot {
	return e.board.Snapshot()
}

// Extent returns the board bounds.
func (e *Engine) Extent() Bounds {
	return e.board.Extent()
}

// Stats reports how many pieces of each kind spawned and how many locked.
type Stats struct {
	Spawned map[PieceKind]int
	Locked  int
}

// Stats returns piece statistics for the session.
func (e *Engine) Stats() Stats {
	s := Stats{Spawned: make(map[PieceKind]int, NumKinds), Locked: e.locked}
	for k := range PieceKind(e.catalog.Len()) {
		if n, ok := e.spawned.Get(k); ok {
			s.Spawned[k] = n
		}
	}
	return s
}
