package transform

import "github.com/inamate/canvas-editor/internal/geom"

// Ratios returns the horizontal and vertical scale ratios produced by dragging
// handle h by d against the reference frame ref.
//
// Edge handles scale only their perpendicular axis. Corner handles use one ratio
// for both axes, taken from the horizontal movement, or from the vertical one
// when the reference has no width. An axis whose reference extent is zero keeps
// a ratio of 1.
func Ratios(h Handle, d geom.Delta, ref geom.Frame) (rx, ry float64) {
	if !h.IsResize() {
		return 1, 1
	}
	a := axesByHandle[h]

	rx, okX := axisRatio(a.x, ref.Width, d.DX)
	ry, okY := axisRatio(a.y, ref.Height, d.DY)
	if a.uniform {
		switch {
		case okX:
			ry = rx
		case okY:
			rx = ry
		}
	}
	return rx, ry
}

func axisRatio(e edge, size, d float64) (float64, bool) {
	if size == 0 {
		return 1, false
	}
	switch e {
	case edgeMin:
		return (size - d) / size, true
	case edgeMax:
		return (size + d) / size, true
	default:
		return 1, false
	}
}

// mapAxis scales pos relative to the side of the reference that stays anchored.
func mapAxis(e edge, pos, refPos, refSize, r float64) float64 {
	switch e {
	case edgeMin:
		anchor := refPos + refSize
		return anchor - (anchor-pos)*r
	case edgeMax:
		return refPos + (pos-refPos)*r
	default:
		return pos
	}
}

// Resize scales target as handle h of the reference frame ref is dragged by d.
// The dragged side of ref tracks the pointer and the opposite side stays put;
// target's position is mapped through the same ratios relative to that anchored
// side and its size is scaled by them, so a group keeps its relative layout.
// The reference is treated as axis-aligned. Target's angle is kept.
func Resize(target geom.Frame, h Handle, d geom.Delta, ref geom.Frame) geom.Frame {
	if !h.IsResize() {
		return target
	}
	rx, ry := Ratios(h, d, ref)
	a := axesByHandle[h]

	out := target
	out.X = mapAxis(a.x, target.X, ref.X, ref.Width, rx)
	out.Y = mapAxis(a.y, target.Y, ref.Y, ref.Height, ry)
	out.Width = target.Width * rx
	out.Height = target.Height * ry
	return out
}

// ResizeSelf resizes a single object against its own frame, honouring its
// rotation: d is taken into the object's local axes, the handle math runs on the
// unrotated rectangle, and the result is shifted so the anchored handle stays at
// the same canvas position despite the center moving.
func ResizeSelf(target geom.Frame, h Handle, d geom.Delta) geom.Frame {
	if !h.IsResize() {
		return target
	}
	if target.Angle == 0 {
		return Resize(target, h, d, target)
	}

	theta := target.Radians()
	out := Resize(target, h, d.Rotate(-theta), target)

	anchor := h.Opposite()
	before := geom.RotatePoint(theta, handlePoint(target, anchor), target.Center())
	after := geom.RotatePoint(theta, handlePoint(out, anchor), out.Center())

	return Move(out, before.Sub(after))
}
