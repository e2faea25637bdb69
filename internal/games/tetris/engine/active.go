package engine

// ActivePiece is the falling piece: a shared Shape plus its anchor and
// rotation index. Only the Engine mutates it.
type ActivePiece struct {
	shape    *Shape
	anchor   Vec
	rotation int
}

// Kind returns the piece kind.
func (p *ActivePiece) Kind() PieceKind {
	return p.shape.kind
}

// Anchor returns the anchor position.
func (p *ActivePiece) Anchor() Vec {
	return p.anchor
}

// Rotation returns the rotation index in [0, 4).
func (p *ActivePiece) Rotation() int {
	return p.rotation
}

// Cells returns the cell offsets for the current rotation.
func (p *ActivePiece) Cells() [CellCount]Vec {
	return p.shape.Cells(p.rotation)
}

// Positions returns the absolute board cells the piece covers.
func (p *ActivePiece) Positions() [CellCount]Vec {
	return positionsAt(p.Cells(), p.anchor)
}

func positionsAt(cells [CellCount]Vec, anchor Vec) [CellCount]Vec {
	var out [CellCount]Vec
	for i, c := range cells {
		out[i] = anchor.Add(c)
	}
	return out
}
