package board

func (b Board) Contains(index int) bool {
	return 0 <= index && index < b.Squares()
}

func (b Board) Index(row, column int) int {
	return row*b.Columns + column
}

// Coordinate maps a linear index back to (row, column). Rows are recovered
// by dividing by the column count, which keeps non-square boards correct.
func (b Board) Coordinate(index int) (row, column int) {
	return index / b.Columns, index % b.Columns
}

// Neighbors returns the Moore neighbourhood of index clipped to the grid,
// ordered top-left to bottom-right:
//
//	1 2 3
//	4   5
//	6 7 8
func (b Board) Neighbors(index int) []int {
	row, column := b.Coordinate(index)
	indices := make([]int, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		if r < 0 || r >= b.Rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			c := column + dc
			if c < 0 || c >= b.Columns || (dr == 0 && dc == 0) {
				continue
			}
			indices = append(indices, b.Index(r, c))
		}
	}
	return indices
}

func (b Board) InBounds(row, column int) bool {
	return 0 <= row && row < b.Rows && 0 <= column && column < b.Columns
}
