// Package geom is the 2D geometry used by the editor: points, frames that carry a
// rotation about their own center, bounding boxes and overlap tests.
//
// Every function is pure. Angles stored on frames are in degrees; RotatePoint and
// Matrix2D take radians.
package geom

import "math"

// Point is a position in canvas-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Delta is pointer movement between two consecutive events.
type Delta struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Sub returns the movement from q to p.
func (p Point) Sub(q Point) Delta {
	return Delta{DX: p.X - q.X, DY: p.Y - q.Y}
}

// Add translates p by d.
func (p Point) Add(d Delta) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Rotate returns d rotated by radians around the origin.
func (d Delta) Rotate(radians float64) Delta {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Delta{
		DX: d.DX*cos - d.DY*sin,
		DY: d.DX*sin + d.DY*cos,
	}
}

// Frame is a rectangle plus a rotation about its own center.
// X and Y are the top-left corner of the unrotated rectangle.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"`
}

// Bounds is an axis-aligned envelope.
type Bounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Frame converts the envelope into an unrotated frame.
func (b Bounds) Frame() Frame {
	return Frame{X: b.MinX, Y: b.MinY, Width: b.MaxX - b.MinX, Height: b.MaxY - b.MinY}
}

// Union returns the smallest envelope containing both.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		MinX: min(b.MinX, other.MinX),
		MaxX: max(b.MaxX, other.MaxX),
		MinY: min(b.MinY, other.MinY),
		MaxY: max(b.MaxY, other.MaxY),
	}
}

// Center returns the center point of the frame.
func (f Frame) Center() Point {
	return Point{X: f.X + f.Width/2, Y: f.Y + f.Height/2}
}

// Radians returns the frame angle in radians.
func (f Frame) Radians() float64 {
	return f.Angle * math.Pi / 180.0
}

// Normalize folds a negative width or height into the position so that X/Y is the
// top-left corner again. The angle is kept.
func (f Frame) Normalize() Frame {
	if f.Width < 0 {
		f.X += f.Width
		f.Width = -f.Width
	}
	if f.Height < 0 {
		f.Y += f.Height
		f.Height = -f.Height
	}
	return f
}

// Corners returns the unrotated corners: top-left, top-right, bottom-right,
// bottom-left.
func (f Frame) Corners() [4]Point {
	return [4]Point{
		{X: f.X, Y: f.Y},
		{X: f.X + f.Width, Y: f.Y},
		{X: f.X + f.Width, Y: f.Y + f.Height},
		{X: f.X, Y: f.Y + f.Height},
	}
}

// containsUnrotated ignores the angle.
func (f Frame) containsUnrotated(p Point) bool {
	n := f.Normalize()
	return p.X >= n.X && p.X <= n.X+n.Width && p.Y >= n.Y && p.Y <= n.Y+n.Height
}

// ContainsPoint reports whether p lies inside the frame once its rotation is
// applied. Edges count as inside.
func (f Frame) ContainsPoint(p Point) bool {
	if f.Angle == 0 {
		return f.containsUnrotated(p)
	}
	local := RotateAbout(f.Radians(), f.Center()).Invert().TransformPoint(p)
	return f.containsUnrotated(local)
}

// RotatePoint rotates p by radians around pivot.
func RotatePoint(radians float64, p, pivot Point) Point {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Point{
		X: (p.X-pivot.X)*cos - (p.Y-pivot.Y)*sin + pivot.X,
		Y: (p.X-pivot.X)*sin + (p.Y-pivot.Y)*cos + pivot.Y,
	}
}

// RotatedCorners returns the four corners of f rotated by f.Angle about its center,
// in the order of Corners.
func RotatedCorners(f Frame) [4]Point {
	corners := f.Corners()
	if f.Angle == 0 {
		return corners
	}
	m := RotateAbout(f.Radians(), f.Center())
	for i, c := range corners {
		corners[i] = m.TransformPoint(c)
	}
	return corners
}

// RotatedBoundingBox returns the axis-aligned envelope of the rotated frame.
func RotatedBoundingBox(f Frame) Bounds {
	corners := RotatedCorners(f)
	b := Bounds{MinX: corners[0].X, MaxX: corners[0].X, MinY: corners[0].Y, MaxY: corners[0].Y}
	for _, c := range corners[1:] {
		b.MinX = math.Min(b.MinX, c.X)
		b.MaxX = math.Max(b.MaxX, c.X)
		b.MinY = math.Min(b.MinY, c.Y)
		b.MaxY = math.Max(b.MaxY, c.Y)
	}
	return b
}

// BoundingBoxOfMany returns the union envelope of frames as an unrotated frame, or
// nil when frames is empty. With useRotation each frame contributes its rotated
// envelope; otherwise its unrotated rectangle.
func BoundingBoxOfMany(frames []Frame, useRotation bool) *Frame {
	if len(frames) == 0 {
		return nil
	}

	var result Bounds
	for i, f := range frames {
		var b Bounds
		if useRotation {
			b = RotatedBoundingBox(f)
		} else {
			b = Bounds{MinX: f.X, MaxX: f.X + f.Width, MinY: f.Y, MaxY: f.Y + f.Height}
		}
		if i == 0 {
			result = b
			continue
		}
		result = result.Union(b)
	}

	frame := result.Frame()
	return &frame
}

// Intersection returns the overlap of two unrotated frames. Width or height is
// zero or negative when they do not overlap.
func Intersection(a, b Frame) Frame {
	x := math.Max(a.X, b.X)
	y := math.Max(a.Y, b.Y)
	xx := math.Min(a.X+a.Width, b.X+b.Width)
	yy := math.Min(a.Y+a.Height, b.Y+b.Height)
	return Frame{X: x, Y: y, Width: xx - x, Height: yy - y}
}

// RectsOverlap reports whether two axis-aligned rectangles share a region of
// positive area. Touching edges do not overlap.
func RectsOverlap(a, b Frame) bool {
	i := Intersection(a.Normalize(), b.Normalize())
	return i.Width > 0 && i.Height > 0
}

// InFrame reports whether obj belongs to a marquee selection: any rotated corner
// of obj lies inside the marquee, or any marquee corner lies inside obj's rotated
// rectangle. The marquee itself is never rotated.
func InFrame(marquee, obj Frame) bool {
	marquee = marquee.Normalize()
	marquee.Angle = 0

	for _, p := range RotatedCorners(obj) {
		if marquee.containsUnrotated(p) {
			return true
		}
	}
	for _, p := range marquee.Corners() {
		if obj.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// AngleBetween returns the direction from p1 to p2 in degrees, in (-180, 180].
// A zero vector yields 0.
func AngleBetween(p1, p2 Point) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X) * 180.0 / math.Pi
}
