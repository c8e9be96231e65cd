package board

// RowFull reports whether every interior column of row is occupied.
func (g *Grid) RowFull(row int) bool {
	g.checkRow(row)
	b := g.Bounds()
	start := row * g.width
	for col := b.Left; col <= b.Right; col++ {
		if !g.cells[start+col].Occupied {
			return false
		}
	}
	return true
}

// ClearFullLines removes every full interior row, scanning top to bottom and
// compacting immediately: each row above a cleared row moves down by one and
// the topmost interior row is emptied. It returns the number of rows removed.
func (g *Grid) ClearFullLines() int {
	b := g.Bounds()
	cleared := 0
	for row := b.Top; row < b.Bottom; row++ {
		if !g.RowFull(row) {
			continue
		}
		for r := row; r > b.Top; r-- {
			g.SetRow(r, g.Row(r-1))
		}
		g.SetRow(b.Top, make(Row, g.width))
		cleared++
	}
	return cleared
}
