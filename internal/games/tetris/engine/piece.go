package engine

import (
	"errors"
	"fmt"
	"math"
)

// Vec is an integer cell offset or position. X grows right, Y grows up.
type Vec struct {
	X, Y int
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Common move deltas.
var (
	Left  = Vec{X: -1}
	Right = Vec{X: 1}
	Down  = Vec{Y: -1}
)

// PieceKind enumerates the seven tetrominoes.
type PieceKind int

const (
	KindI PieceKind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
)

// NumKinds is the number of piece kinds in a complete catalog.
const NumKinds = 7

// CellCount is the number of cells every piece occupies.
const CellCount = 4

// String returns the single-letter name of the kind.
func (k PieceKind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindO:
		return "O"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindZ:
		return "Z"
	default:
		return "?"
	}
}

// Tile returns the tile identifier written into the board when a piece of
// this kind locks. Zero is reserved for an empty cell.
func (k PieceKind) Tile() TileID {
	return TileID(k) + 1
}

// Direction is a rotation direction.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// Transition identifies a rotation from one rotation index to another.
type Transition struct {
	From, To int
}

// requiredTransitions lists every transition a kick table must cover.
var requiredTransitions = []Transition{
	{0, 1}, {1, 0},
	{1, 2}, {2, 1},
	{2, 3}, {3, 2},
	{3, 0}, {0, 3},
}

// Catalog validation errors.
var (
	ErrCellCount     = errors.New("engine: piece must have exactly 4 cells")
	ErrMissingKicks  = errors.New("engine: wall kick table is incomplete")
	ErrDuplicateKind = errors.New("engine: piece kind defined twice")
	ErrUnknownKind   = errors.New("engine: unknown piece kind")
)

// ShapeDef is the raw definition of one piece kind: its cells in rotation 0
// and its wall kick table. HalfPivot rotates around the corner shared by the
// four central cells instead of around cell (0,0), as I and O do.
type ShapeDef struct {
	Kind      PieceKind
	Cells     []Vec
	Kicks     map[Transition][]Vec
	HalfPivot bool
}

// Shape is a validated piece definition with all four rotation states
// precomputed. Shapes are shared read-only between pieces.
type Shape struct {
	kind      PieceKind
	rotations [4][CellCount]Vec
	kicks     map[Transition][]Vec
}

// Kind returns the piece kind.
func (s *Shape) Kind() PieceKind {
	return s.kind
}

// Cells returns the cell offsets for a rotation index (taken mod 4).
func (s *Shape) Cells(rotation int) [CellCount]Vec {
	return s.rotations[wrap(rotation, 4)]
}

// Kicks returns the ordered kick offsets tried for a rotation transition.
func (s *Shape) Kicks(t Transition) []Vec {
	return s.kicks[t]
}

// newShape validates a definition and precomputes its rotations.
func newShape(def ShapeDef) (*Shape, error) {
	if def.Kind < 0 || def.Kind >= NumKinds {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, def.Kind)
	}
	if len(def.Cells) != CellCount {
		return nil, fmt.Errorf("%w: %s has %d", ErrCellCount, def.Kind, len(def.Cells))
	}
	for _, t := range requiredTransitions {
		if len(def.Kicks[t]) == 0 {
			return nil, fmt.Errorf("%w: %s lacks %d->%d", ErrMissingKicks, def.Kind, t.From, t.To)
		}
	}

	s := &Shape{
		kind:  def.Kind,
		kicks: make(map[Transition][]Vec, len(def.Kicks)),
	}
	for t, offsets := range def.Kicks {
		s.kicks[t] = append([]Vec(nil), offsets...)
	}

	copy(s.rotations[0][:], def.Cells)
	for r := 1; r < 4; r++ {
		for i, c := range s.rotations[r-1] {
			s.rotations[r][i] = rotateClockwise(c, def.HalfPivot)
		}
	}
	return s, nil
}

// rotateClockwise maps (x, y) to (y, -x). With a half-cell pivot the cell is
// shifted by -0.5 before rotating and rounded up afterwards.
func rotateClockwise(c Vec, halfPivot bool) Vec {
	if !halfPivot {
		return Vec{X: c.Y, Y: -c.X}
	}
	x := float64(c.X) - 0.5
	y := float64(c.Y) - 0.5
	return Vec{X: int(math.Ceil(y)), Y: int(math.Ceil(-x))}
}

// Catalog holds one Shape per piece kind.
type Catalog struct {
	shapes [NumKinds]*Shape
}

// NewCatalog validates the definitions and builds a catalog. Every kind must be
// defined exactly once.
func NewCatalog(defs []ShapeDef) (*Catalog, error) {
	c := &Catalog{}
	for _, def := range defs {
		s, err := newShape(def)
		if err != nil {
			return nil, err
		}
		if c.shapes[def.Kind] != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, def.Kind)
		}
		c.shapes[def.Kind] = s
	}
	for k, s := range c.shapes {
		if s == nil {
			return nil, fmt.Errorf("%w: %s is not defined", ErrUnknownKind, PieceKind(k))
		}
	}
	return c, nil
}

// Shape returns the shape for a kind.
func (c *Catalog) Shape(k PieceKind) *Shape {
	return c.shapes[k]
}

// Len returns the number of kinds in the catalog.
func (c *Catalog) Len() int {
	return len(c.shapes)
}

// MustDefaultCatalog builds the standard seven-piece catalog and panics if the
// built-in tables are malformed.
func MustDefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultShapes())
	if err != nil {
		panic(err)
	}
	return c
}

// SRS kick tables, rows in the order of requiredTransitions.
var (
	kicksI = kickTable([8][5]Vec{
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	})
	kicksJLOSTZ = kickTable([8][5]Vec{
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	})
)

func kickTable(rows [8][5]Vec) map[Transition][]Vec {
	m := make(map[Transition][]Vec, len(rows))
	for i, t := range requiredTransitions {
		m[t] = rows[i][:]
	}
	return m
}

// DefaultShapes returns the standard definitions for I, J, L, O, S, T and Z.
func DefaultShapes() []ShapeDef {
	return []ShapeDef{
		{Kind: KindI, Cells: []Vec{{-1, 1}, {0, 1}, {1, 1}, {2, 1}}, Kicks: kicksI, HalfPivot: true},
		{Kind: KindJ, Cells: []Vec{{-1, 1}, {-1, 0}, {0, 0}, {1, 0}}, Kicks: kicksJLOSTZ},
		{Kind: KindL, Cells: []Vec{{1, 1}, {-1, 0}, {0, 0}, {1, 0}}, Kicks: kicksJLOSTZ},
		{Kind: KindO, Cells: []Vec{{0, 1}, {1, 1}, {0, 0}, {1, 0}}, Kicks: kicksJLOSTZ, HalfPivot: true},
		{Kind: KindS, Cells: []Vec{{0, 1}, {1, 1}, {-1, 0}, {0, 0}}, Kicks: kicksJLOSTZ},
		{Kind: KindT, Cells: []Vec{{0, 1}, {-1, 0}, {0, 0}, {1, 0}}, Kicks: kicksJLOSTZ},
		{Kind: KindZ, Cells: []Vec{{-1, 1}, {0, 1}, {0, 0}, {1, 0}}, Kicks: kicksJLOSTZ},
	}
}

// wrap returns v mod n in [0, n).
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
