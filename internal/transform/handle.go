package transform

import "github.com/inamate/canvas-editor/internal/geom"

// Handle indexes a control point on the control frame: 0-7 are resize handles
// clockwise from the top-left corner, 8 is the rotation handle.
type Handle int

const (
	HandleNone         Handle = -1
	HandleTopLeft      Handle = 0
	HandleTopCenter    Handle = 1
	HandleTopRight     Handle = 2
	HandleMiddleRight  Handle = 3
	HandleBottomRight  Handle = 4
	HandleBottomCenter Handle = 5
	HandleBottomLeft   Handle = 6
	HandleMiddleLeft   Handle = 7
	HandleRotate       Handle = 8

	// HandleAdd is the handle a freshly added object is grown by.
	HandleAdd = HandleBottomRight
)

type handleConfig struct {
	desc   string
	cursor string
}

var handleConfigs = [...]handleConfig{
	{desc: "top-left", cursor: "nwse-resize"},
	{desc: "top-center", cursor: "row-resize"},
	{desc: "top-right", cursor: "nesw-resize"},
	{desc: "middle-right", cursor: "col-resize"},
	{desc: "bottom-right", cursor: "nwse-resize"},
	{desc: "bottom-center", cursor: "row-resize"},
	{desc: "bottom-left", cursor: "nesw-resize"},
	{desc: "middle-left", cursor: "col-resize"},
	{desc: "rotate", cursor: "grabbing"},
}

// IsResize reports whether h is one of the eight resize handles.
func (h Handle) IsResize() bool {
	return h >= HandleTopLeft && h <= HandleMiddleLeft
}

// Valid reports whether h names a real handle.
func (h Handle) Valid() bool {
	return h >= HandleTopLeft && h <= HandleRotate
}

// String returns the position descriptor, e.g. "top-left".
func (h Handle) String() string {
	if !h.Valid() {
		return "none"
	}
	return handleConfigs[h].desc
}

// Cursor returns the CSS cursor shown over the handle.
func (h Handle) Cursor() string {
	if !h.Valid() {
		return "default"
	}
	return handleConfigs[h].cursor
}

// Opposite returns the handle that stays anchored while h is dragged.
func (h Handle) Opposite() Handle {
	if !h.IsResize() {
		return HandleNone
	}
	return (h + 4) % 8
}

// HandleSpec describes one control point for the rendering layer.
type HandleSpec struct {
	Index    Handle     `json:"index"`
	Desc     string     `json:"desc"`
	Cursor   string     `json:"cursor"`
	Position geom.Point `json:"position"`
}

// handlePoint returns the unrotated position of a resize handle on f.
func handlePoint(f geom.Frame, h Handle) geom.Point {
	x0, x1, x2 := f.X, f.X+f.Width/2, f.X+f.Width
	y0, y1, y2 := f.Y, f.Y+f.Height/2, f.Y+f.Height

	switch h {
	case HandleTopLeft:
		return geom.Point{X: x0, Y: y0}
	case HandleTopCenter:
		return geom.Point{X: x1, Y: y0}
	case HandleTopRight:
		return geom.Point{X: x2, Y: y0}
	case HandleMiddleRight:
		return geom.Point{X: x2, Y: y1}
	case HandleBottomRight:
		return geom.Point{X: x2, Y: y2}
	case HandleBottomCenter:
		return geom.Point{X: x1, Y: y2}
	case HandleBottomLeft:
		return geom.Point{X: x0, Y: y2}
	case HandleMiddleLeft:
		return geom.Point{X: x0, Y: y1}
	default:
		return f.Center()
	}
}

// Handles lays out the eight resize handles and the rotation handle of a control
// frame. Positions are handle centers in canvas coordinates with the frame's
// rotation applied. The rotation handle sits rotateLength to the right of the
// middle-right handle.
func Handles(f geom.Frame, rotateLength float64) []HandleSpec {
	m := geom.RotateAbout(f.Radians(), f.Center())

	specs := make([]HandleSpec, 0, len(handleConfigs))
	for h := HandleTopLeft; h <= HandleMiddleLeft; h++ {
		specs = append(specs, HandleSpec{
			Index:    h,
			Desc:     h.String(),
			Cursor:   h.Cursor(),
			Position: m.TransformPoint(handlePoint(f, h)),
		})
	}

	rotate := handlePoint(f, HandleMiddleRight)
	rotate.X += rotateLength
	specs = append(specs, HandleSpec{
		Index:    HandleRotate,
		Desc:     HandleRotate.String(),
		Cursor:   HandleRotate.Cursor(),
		Position: m.TransformPoint(rotate),
	})

	return specs
}
