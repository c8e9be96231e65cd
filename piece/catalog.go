// Package piece defines the seven tetromino shapes, their rotation, and the
// generators that decide which shape comes next.
package piece

import (
	"fmt"

	"github.com/plus3/blockfall/geom"
)

// Kind identifies one of the seven canonical shapes.
type Kind uint8

const (
	I Kind = iota
	J
	L
	O
	S
	T
	Z
)

// KindCount is the number of canonical shapes.
const KindCount = 7

var kindNames = [KindCount]string{"I", "J", "L", "O", "S", "T", "Z"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Color is the tag a renderer maps to a concrete color.
type Color uint8

const (
	ColorNone Color = iota
	ColorCyan
	ColorBlue
	ColorOrange
	ColorYellow
	ColorGreen
	ColorPurple
	ColorRed
)

var colorNames = [...]string{"none", "cyan", "blue", "orange", "yellow", "green", "purple", "red"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Shape is an immutable set of four offsets around a pivot cell.
type Shape struct {
	Kind    Kind
	Offsets [4]geom.Vector2
	Color   Color
	Glyph   rune
}

// Catalog holds the spawn orientation of every shape, indexed by Kind.
//
//	I  ####     J  #..    L  ..#    O  ##
//	             ###         ###       ##
//	S  .##      T  .#.    Z  ##.
//	   ##.         ###       .##
//
// The pivot is the cell at offset (0, 0).
var Catalog = [KindCount]Shape{
	I: {Kind: I, Color: ColorCyan, Glyph: '#', Offsets: [4]geom.Vector2{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}},
	J: {Kind: J, Color: ColorBlue, Glyph: '%', Offsets: [4]geom.Vector2{{X: -1, Y: -1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
	L: {Kind: L, Color: ColorOrange, Glyph: '@', Offsets: [4]geom.Vector2{{X: 1, Y: -1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
	O: {Kind: O, Color: ColorYellow, Glyph: 'O', Offsets: [4]geom.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}},
	S: {Kind: S, Color: ColorGreen, Glyph: '$', Offsets: [4]geom.Vector2{{X: 0, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 0}, {X: 0, Y: 0}}},
	T: {Kind: T, Color: ColorPurple, Glyph: '+', Offsets: [4]geom.Vector2{{X: 0, Y: -1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
	Z: {Kind: Z, Color: ColorRed, Glyph: '&', Offsets: [4]geom.Vector2{{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
}

// Of returns the spawn orientation of kind k.
func Of(k Kind) Shape {
	if int(k) >= KindCount {
		panic("piece: unknown kind " + k.String())
	}
	return Catalog[k]
}

// Rotate returns s turned 90 degrees clockwise about its pivot.
// It never checks for collisions; callers validate the result first.
func Rotate(s Shape) Shape {
	rotated := s
	for i, off := range s.Offsets {
		rotated.Offsets[i] = geom.Vector2{X: -off.Y, Y: off.X}
	}
	return rotated
}
