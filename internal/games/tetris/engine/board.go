package engine

import "fmt"

// TileID identifies what occupies a board cell. Empty is the zero value.
type TileID uint8

// Empty marks an unoccupied cell.
const Empty TileID = 0

// Bounds is the half-open rectangle [XMin, XMax) x [YMin, YMax).
type Bounds struct {
	XMin, XMax int
	YMin, YMax int
}

// Contains reports whether the cell lies inside the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.XMin && x < b.XMax && y >= b.YMin && y < b.YMax
}

// Width returns the number of columns.
func (b Bounds) Width() int {
	return b.XMax - b.XMin
}

// Height returns the number of rows.
func (b Bounds) Height() int {
	return b.YMax - b.YMin
}

// BoundsFor centers a width x height board on the origin. The minimum corner
// is (-(width/2), -(height/2)) using truncating division, so a 10x20 board
// spans x in [-5, 5) and y in [-10, 10).
func BoundsFor(width, height int) Bounds {
	xMin := -(width / 2)
	yMin := -(height / 2)
	return Bounds{XMin: xMin, XMax: xMin + width, YMin: yMin, YMax: yMin + height}
}

// Board is the fixed-size occupancy grid.
//
// Out-of-bounds policy: cells outside the bounds are solid. Occupied reports
// true for them, Tile reports ok=false, and Set/Clear panic because callers
// must validate placements with IsValidPosition before writing.
type Board struct {
	bounds Bounds
	cells  []TileID // row-major, row 0 is YMin
}

// NewBoard creates an empty board of the given size.
func NewBoard(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("engine: invalid board size %dx%d", width, height))
	}
	return &Board{
		bounds: BoundsFor(width, height),
		cells:  make([]TileID, width*height),
	}
}

// Extent returns the board bounds.
func (b *Board) Extent() Bounds {
	return b.bounds
}

func (b *Board) index(x, y int) int {
	return (y-b.bounds.YMin)*b.bounds.Width() + (x - b.bounds.XMin)
}

func (b *Board) mustIndex(x, y int) int {
	if !b.bounds.Contains(x, y) {
		panic(fmt.Sprintf("engine: cell (%d,%d) outside board %+v", x, y, b.bounds))
	}
	return b.index(x, y)
}

// Occupied reports whether a cell holds a tile. Out-of-bounds cells are
// reported as occupied.
func (b *Board) Occupied(x, y int) bool {
	if !b.bounds.Contains(x, y) {
		return true
	}
	return b.cells[b.index(x, y)] != Empty
}

// Tile returns the tile at a cell; ok is false outside the bounds.
func (b *Board) Tile(x, y int) (tile TileID, ok bool) {
	if !b.bounds.Contains(x, y) {
		return Empty, false
	}
	return b.cells[b.index(x, y)], true
}

// Set writes a tile into a cell. Setting Empty clears it.
func (b *Board) Set(x, y int, tile TileID) {
	b.cells[b.mustIndex(x, y)] = tile
}

// Clear empties a cell.
func (b *Board) Clear(x, y int) {
	b.cells[b.mustIndex(x, y)] = Empty
}

// Reset empties every cell.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
}

// IsValidPosition reports whether every cell, offset by anchor, lies inside
// the bounds on an empty cell. It stops at the first violation.
func (b *Board) IsValidPosition(cells [CellCount]Vec, anchor Vec) bool {
	for _, c := range cells {
		p := anchor.Add(c)
		if !b.bounds.Contains(p.X, p.Y) {
			return false
		}
		if b.cells[b.index(p.X, p.Y)] != Empty {
			return false
		}
	}
	return true
}

// Snapshot returns a read-only copy of the board contents.
func (b *Board) Snapshot() BoardSnapshot {
	cells := make([]TileID, len(b.cells))
	copy(cells, b.cells)
	return BoardSnapshot{bounds: b.bounds, cells: cells}
}

// BoardSnapshot is an immutable copy of board occupancy for rendering.
type BoardSnapshot struct {
	bounds Bounds
	cells  []TileID
}

// Extent returns the bounds of the snapshot.
func (s BoardSnapshot) Extent() Bounds {
	return s.bounds
}

// At returns the tile at a cell, or Empty outside the bounds.
func (s BoardSnapshot) At(x, y int) TileID {
	if !s.bounds.Contains(x, y) {
		return Empty
	}
	return s.cells[(y-s.bounds.YMin)*s.bounds.Width()+(x-s.bounds.XMin)]
}

// Filled returns the number of occupied cells.
func (s BoardSnapshot) Filled() int {
	n := 0
	for _, t := range s.cells {
		if t != Empty {
			n++
		}
	}
	return n
}
