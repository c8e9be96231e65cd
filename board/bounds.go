package board

import (
	"github.com/plus3/blockfall/geom"
	"github.com/plus3/blockfall/piece"
)

// Bounds is the playable interior of a grid. Columns Left..Right and rows
// Top..Bottom-1 are playable.
type Bounds struct {
	Left, Right int
	Top, Bottom int
}

// Bounds returns the interior of g.
func (g *Grid) Bounds() Bounds {
	return Bounds{
		Left:   1,
		Right:  g.width - 2,
		Top:    1,
		Bottom: g.height - 1,
	}
}

// Contains reports whether p lies inside the interior.
func (b Bounds) Contains(p geom.Vector2) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y < b.Bottom
}

// Width is the number of playable columns.
func (b Bounds) Width() int { return b.Right - b.Left + 1 }

// Height is the number of playable rows.
func (b Bounds) Height() int { return b.Bottom - b.Top }

// Collides reports whether shape placed at pos would leave the interior or
// overlap an occupied cell. It never mutates the grid.
func (g *Grid) Collides(shape piece.Shape, pos geom.Vector2) bool {
	b := g.Bounds()
	for _, off := range shape.Offsets {
		p := pos.Add(off)
		if !b.Contains(p) {
			return true
		}
		if g.cells[p.Y*g.width+p.X].Occupied {
			return true
		}
	}
	return false
}

// Lock writes every cell of in into the grid with the shape's color.
// The caller must have checked in against Collides.
func (g *Grid) Lock(in piece.Instance) {
	for _, p := range in.Cells() {
		g.Set(p.Y, p.X, Filled(in.Shape.Color))
	}
}
