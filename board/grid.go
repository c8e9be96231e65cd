// Package board implements the playfield: a fixed grid of cells surrounded by a
// one-cell border, collision queries against it, and row compaction.
package board

import (
	"errors"
	"fmt"

	"github.com/plus3/blockfall/piece"
)

// ErrOutOfRange is wrapped by the panic raised on invalid row or column access.
var ErrOutOfRange = errors.New("board: index out of range")

// Cell is a single grid slot. Color is meaningful only when Occupied is set.
type Cell struct {
	Occupied bool
	Color    piece.Color
}

// Filled returns an occupied cell of the given color.
func Filled(c piece.Color) Cell {
	return Cell{Occupied: true, Color: c}
}

// Row is a copy of one grid row.
type Row []Cell

// Grid stores the raw cells of the playfield in row-major order, including
// the border ring. The border is never stored as occupied; Bounds describes
// the playable interior.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// NewGrid returns an empty grid with the given interior size. The stored grid
// is two cells larger in each dimension.
func NewGrid(interiorWidth, interiorHeight int) *Grid {
	if interiorWidth <= 0 || interiorHeight <= 0 {
		panic(fmt.Sprintf("board: invalid interior %dx%d", interiorWidth, interiorHeight))
	}
	w, h := interiorWidth+2, interiorHeight+2
	return &Grid{
		width:  w,
		height: h,
		cells:  make([]Cell, w*h),
	}
}

// Width is the stored width including the border.
func (g *Grid) Width() int { return g.width }

// Height is the stored height including the border.
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(row, col int) int {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		panic(fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfRange, row, col, g.height, g.width))
	}
	return row*g.width + col
}

func (g *Grid) checkRow(row int) {
	if row < 0 || row >= g.height {
		panic(fmt.Errorf("%w: row %d outside [0,%d)", ErrOutOfRange, row, g.height))
	}
}

// Get returns the cell at (row, col).
func (g *Grid) Get(row, col int) Cell {
	return g.cells[g.index(row, col)]
}

// Set overwrites the cell at (row, col). Unoccupied cells are stored with no color.
func (g *Grid) Set(row, col int, c Cell) {
	if !c.Occupied {
		c = Cell{}
	}
	g.cells[g.index(row, col)] = c
}

// Row returns a copy of the given row.
func (g *Grid) Row(row int) Row {
	g.checkRow(row)
	start := row * g.width
	out := make(Row, g.width)
	copy(out, g.cells[start:start+g.width])
	return out
}

// SetRow replaces the given row. r must be exactly Width cells long.
func (g *Grid) SetRow(row int, r Row) {
	g.checkRow(row)
	if len(r) != g.width {
		panic(fmt.Errorf("%w: row length %d, want %d", ErrOutOfRange, len(r), g.width))
	}
	start := row * g.width
	for i, c := range r {
		if !c.Occupied {
			c = Cell{}
		}
		g.cells[start+i] = c
	}
}

// Occupied counts occupied cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, c := range g.cells {
		if c.Occupied {
			n++
		}
	}
	return n
}

// Reset empties every cell.
func (g *Grid) Reset() {
	clear(g.cells)
}
