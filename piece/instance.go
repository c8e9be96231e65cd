package piece

import "github.com/plus3/blockfall/geom"

// Instance is a shape placed at a pivot position on the playfield.
type Instance struct {
	Pos   geom.Vector2
	Shape Shape
}

// Cells returns the absolute coordinates covered by the instance.
func (in Instance) Cells() [4]geom.Vector2 {
	var cells [4]geom.Vector2
	for i, off := range in.Shape.Offsets {
		cells[i] = in.Pos.Add(off)
	}
	return cells
}

// Moved returns a copy of the instance shifted by delta.
func (in Instance) Moved(delta geom.Vector2) Instance {
	in.Pos = in.Pos.Add(delta)
	return in
}

// Rotated returns a copy of the instance with its shape rotated clockwise.
func (in Instance) Rotated() Instance {
	in.Shape = Rotate(in.Shape)
	return in
}
