// Package geom holds the integer geometry shared by pieces and the playfield.
package geom

// Vector2 is a cell coordinate or offset. X grows to the right, Y grows downward.
type Vector2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec is shorthand for Vector2{X: x, Y: y}.
func Vec(x, y int) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns the component-wise sum of v and o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Down returns v shifted one row down.
func (v Vector2) Down() Vector2 {
	return Vector2{X: v.X, Y: v.Y + 1}
}
