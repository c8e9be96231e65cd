// Package term draws a session on a tcell screen and turns key events into
// game commands.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/geom"
	"github.com/plus3/blockfall/piece"
)

const (
	wallRune  = '█'
	ghostRune = '·'
	sideGap   = 3
)

var palette = map[piece.Color]tcell.Color{
	piece.ColorCyan:   tcell.ColorAqua,
	piece.ColorBlue:   tcell.ColorBlue,
	piece.ColorOrange: tcell.ColorOrange,
	piece.ColorYellow: tcell.ColorYellow,
	piece.ColorGreen:  tcell.ColorGreen,
	piece.ColorPurple: tcell.ColorPurple,
	piece.ColorRed:    tcell.ColorRed,
}

// Style returns the tcell style for a color tag.
func Style(c piece.Color) tcell.Style {
	fg, ok := palette[c]
	if !ok {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(fg)
}

// Renderer draws the playfield at the top-left corner of a screen with a
// side panel for score, next and held pieces.
type Renderer struct {
	screen tcell.Screen
	ghost  bool
}

// NewRenderer draws onto screen. The screen must already be initialized.
func NewRenderer(screen tcell.Screen, ghost bool) *Renderer {
	return &Renderer{screen: screen, ghost: ghost}
}

// Render implements driver.Renderer.
func (r *Renderer) Render(s *game.Session) error {
	r.screen.Clear()

	w, h := s.Size()
	wall := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			c := s.Cell(row, col)
			switch {
			case c.Occupied:
				r.screen.SetContent(col, row, wallRune, nil, Style(c.Color))
			case !s.Bounds().Contains(geom.Vec(col, row)):
				r.screen.SetContent(col, row, wallRune, nil, wall)
			}
		}
	}

	current := s.Current()
	if r.ghost && !s.Over() {
		ghost := piece.Instance{Pos: s.Ghost(), Shape: current.Shape}
		r.drawInstance(ghost, ghostRune, Style(current.Shape.Color).Dim(true))
	}
	r.drawInstance(current, current.Shape.Glyph, Style(current.Shape.Color))

	panel := w + sideGap
	r.text(panel, 0, fmt.Sprintf("SCORE %d", s.Score()), tcell.StyleDefault.Bold(true))
	r.text(panel, 2, "NEXT", tcell.StyleDefault)
	r.drawPreview(panel+1, 4, s.Next())
	r.text(panel, 7, "HOLD", tcell.StyleDefault)
	if held, ok := s.Held(); ok {
		r.drawPreview(panel+1, 9, held)
	}
	if s.Over() {
		r.text(panel, 12, "GAME OVER", tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}

	r.screen.Show()
	return nil
}

// RenderFinal replaces the playfield with a final score banner.
func (r *Renderer) RenderFinal(score uint, best uint) {
	r.screen.Clear()
	r.text(2, 1, "GAME OVER", tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	r.text(2, 3, fmt.Sprintf("score %d", score), tcell.StyleDefault)
	r.text(2, 4, fmt.Sprintf("best  %d", best), tcell.StyleDefault)
	r.text(2, 6, "press any key", tcell.StyleDefault.Dim(true))
	r.screen.Show()
}

func (r *Renderer) drawInstance(in piece.Instance, glyph rune, style tcell.Style) {
	for _, p := range in.Cells() {
		r.screen.SetContent(p.X, p.Y, glyph, nil, style)
	}
}

func (r *Renderer) drawPreview(x, y int, shape piece.Shape) {
	r.drawInstance(piece.Instance{Pos: geom.Vec(x+1, y), Shape: shape}, shape.Glyph, Style(shape.Color))
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
