package engine

// IsLineFull reports whether every column of a row is occupied.
func (b *Board) IsLineFull(row int) bool {
	if row < b.bounds.YMin || row >= b.bounds.YMax {
		return false
	}
	for col := b.bounds.XMin; col < b.bounds.XMax; col++ {
		if b.cells[b.index(col, row)] == Empty {
			return false
		}
	}
	return true
}

// ClearLines removes every full row and lets the rows above fall, returning
// the number of rows removed.
//
// Rows are scanned bottom-up. After a clear the same row index is examined
// again, because it now holds what used to be the row above.
func (b *Board) ClearLines() int {
	cleared := 0
	row := b.bounds.YMin
	for row < b.bounds.YMax {
		if b.IsLineFull(row) {
			b.collapse(row)
			cleared++
		} else {
			row++
		}
	}
	return cleared
}

// collapse empties a row, then copies each row above it one step down. The top
// row receives the empty row beyond the bounds.
func (b *Board) collapse(row int) {
	for col := b.bounds.XMin; col < b.bounds.XMax; col++ {
		b.cells[b.index(col, row)] = Empty
	}
	for r := row; r < b.bounds.YMax; r++ {
		for col := b.bounds.XMin; col < b.bounds.XMax; col++ {
			above := Empty
			if r+1 < b.bounds.YMax {
				above = b.cells[b.index(col, r+1)]
			}
			b.cells[b.index(col, r)] = above
		}
	}
}
