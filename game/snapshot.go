package game

import (
	"github.com/plus3/blockfall/geom"
	"github.com/plus3/blockfall/piece"
)

// PieceView describes a piece for display.
type PieceView struct {
	Kind  string         `json:"kind"`
	Color string         `json:"color"`
	Glyph string         `json:"glyph"`
	Cells []geom.Vector2 `json:"cells"`
}

// Snapshot is a self-contained copy of everything a renderer needs. Rows
// cover the interior only; '.' is empty, otherwise the digit of the color
// tag. Piece cells are in grid coordinates; Next and Held are relative to
// their pivot.
type Snapshot struct {
	Tick    uint64     `json:"tick"`
	Score   uint       `json:"score"`
	Phase   string     `json:"phase"`
	Rows    []string   `json:"rows"`
	Current PieceView  `json:"current"`
	Ghost   PieceView  `json:"ghost"`
	Next    PieceView  `json:"next"`
	Held    *PieceView `json:"held,omitempty"`
}

func viewOf(in piece.Instance) PieceView {
	cells := in.Cells()
	return PieceView{
		Kind:  in.Shape.Kind.String(),
		Color: in.Shape.Color.String(),
		Glyph: string(in.Shape.Glyph),
		Cells: cells[:],
	}
}

// Snapshot copies the renderer-visible state of the session.
func (s *Session) Snapshot() Snapshot {
	b := s.grid.Bounds()
	rows := make([]string, 0, b.Height())
	line := make([]byte, b.Width())
	for row := b.Top; row < b.Bottom; row++ {
		for col := b.Left; col <= b.Right; col++ {
			c := s.grid.Get(row, col)
			if c.Occupied {
				line[col-b.Left] = '0' + byte(c.Color)
			} else {
				line[col-b.Left] = '.'
			}
		}
		rows = append(rows, string(line))
	}

	snap := Snapshot{
		Tick:    s.tick,
		Score:   s.score,
		Phase:   s.phase.String(),
		Rows:    rows,
		Current: viewOf(s.current),
		Ghost:   viewOf(piece.Instance{Pos: s.Ghost(), Shape: s.current.Shape}),
		Next:    viewOf(piece.Instance{Shape: s.next}),
	}
	if s.hasHeld {
		held := viewOf(piece.Instance{Shape: s.held})
		snap.Held = &held
	}
	return snap
}
