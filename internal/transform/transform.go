// Package transform resolves pointer deltas into new object geometry: moving,
// resizing by one of the eight handles against a reference frame, rotating, and
// growing an object that is being added.
//
// Deltas are always the pointer movement since the previous event, so every
// function here is applied incrementally on each pointer move.
package transform

import "github.com/inamate/canvas-editor/internal/geom"

// edge says which side of the reference frame a handle drags along one axis.
type edge int

const (
	edgeNone edge = iota
	edgeMin       // left or top side moves, right or bottom stays
	edgeMax       // right or bottom side moves, left or top stays
)

type handleAxes struct {
	x, y    edge
	uniform bool // corners share one ratio across both axes
}

var axesByHandle = [8]handleAxes{
	HandleTopLeft:      {x: edgeMin, y: edgeMin, uniform: true},
	HandleTopCenter:    {x: edgeNone, y: edgeMin},
	HandleTopRight:     {x: edgeMax, y: edgeMin, uniform: true},
	HandleMiddleRight:  {x: edgeMax, y: edgeNone},
	HandleBottomRight:  {x: edgeMax, y: edgeMax, uniform: true},
	HandleBottomCenter: {x: edgeNone, y: edgeMax},
	HandleBottomLeft:   {x: edgeMin, y: edgeMax, uniform: true},
	HandleMiddleLeft:   {x: edgeMin, y: edgeNone},
}

// Move translates f by d. Size and angle are unchanged.
func Move(f geom.Frame, d geom.Delta) geom.Frame {
	f.X += d.DX
	f.Y += d.DY
	return f
}

// Grow adjusts f additively as if handle h were dragged by d: the dragged sides
// follow the pointer and the opposite sides stay where they are. Width and height
// may become negative; callers normalise when the drag is committed.
func Grow(f geom.Frame, h Handle, d geom.Delta) geom.Frame {
	if !h.IsResize() {
		return f
	}
	a := axesByHandle[h]
	f.X, f.Width = growAxis(a.x, f.X, f.Width, d.DX)
	f.Y, f.Height = growAxis(a.y, f.Y, f.Height, d.DY)
	return f
}

func growAxis(e edge, pos, size, d float64) (float64, float64) {
	switch e {
	case edgeMin:
		return pos + d, size - d
	case edgeMax:
		return pos, size + d
	default:
		return pos, size
	}
}

// Rotate points f at pointer: the new angle is the direction from the frame's
// center to the pointer, in degrees.
func Rotate(f geom.Frame, pointer geom.Point) geom.Frame {
	f.Angle = geom.AngleBetween(f.Center(), pointer)
	return f
}
