package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/geom"
	"github.com/plus3/blockfall/piece"
)

func TestCollides(t *testing.T) {
	g := board.NewGrid(10, 20)
	g.Set(10, 5, board.Filled(piece.ColorRed))
	o := piece.Of(piece.O)

	tests := []struct {
		name string
		pos  geom.Vector2
		want bool
	}{
		{"free interior", geom.Vec(3, 3), false},
		{"touching left wall", geom.Vec(1, 3), false},
		{"past left wall", geom.Vec(0, 3), true},
		{"touching right wall", geom.Vec(9, 3), false},
		{"past right wall", geom.Vec(10, 3), true},
		{"touching top", geom.Vec(3, 1), false},
		{"past top", geom.Vec(3, 0), true},
		{"resting on floor", geom.Vec(3, 19), false},
		{"through floor", geom.Vec(3, 20), true},
		{"overlapping cell", geom.Vec(4, 9), true},
		{"beside cell", geom.Vec(6, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Collides(o, tt.pos))
		})
	}
}

func TestCollidesIgnoresOffsetOrder(t *testing.T) {
	g := board.NewGrid(10, 20)
	g.Set(5, 4, board.Filled(piece.ColorBlue))

	perms := [][4]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, shape := range piece.Catalog {
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				pos := geom.Vec(x, y)
				want := g.Collides(shape, pos)
				for _, p := range perms {
					permuted := shape
					for i, j := range p {
						permuted.Offsets[i] = shape.Offsets[j]
					}
					assert.Equal(t, want, g.Collides(permuted, pos), "%s at %v", shape.Kind, pos)
				}
			}
		}
	}
}

func TestCollidesMatchesCellwiseDefinition(t *testing.T) {
	g := board.NewGrid(6, 8)
	g.Set(4, 3, board.Filled(piece.ColorRed))
	g.Set(8, 6, board.Filled(piece.ColorRed))
	b := g.Bounds()

	for _, shape := range piece.Catalog {
		for y := -2; y < g.Height()+2; y++ {
			for x := -2; x < g.Width()+2; x++ {
				in := piece.Instance{Pos: geom.Vec(x, y), Shape: shape}
				want := false
				for _, c := range in.Cells() {
					if !b.Contains(c) || g.Get(c.Y, c.X).Occupied {
						want = true
					}
				}
				assert.Equal(t, want, g.Collides(shape, in.Pos), "%s at %v", shape.Kind, in.Pos)
			}
		}
	}
}

func TestLock(t *testing.T) {
	g := board.NewGrid(10, 20)
	g.Set(20, 1, board.Filled(piece.ColorRed))
	before := make([]board.Row, g.Height())
	for r := range before {
		before[r] = g.Row(r)
	}

	in := piece.Instance{Pos: geom.Vec(5, 10), Shape: piece.Of(piece.T)}
	g.Lock(in)

	locked := make(map[geom.Vector2]bool)
	for _, c := range in.Cells() {
		locked[c] = true
		assert.Equal(t, board.Filled(piece.ColorPurple), g.Get(c.Y, c.X))
	}
	assert.Equal(t, 5, g.Occupied())

	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if locked[geom.Vec(c, r)] {
				continue
			}
			assert.Equal(t, before[r][c], g.Get(r, c), "cell (%d,%d) changed", r, c)
		}
	}
}
