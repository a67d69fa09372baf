package editor

import (
	"encoding/json"

	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/geom"
	"github.com/inamate/canvas-editor/internal/transform"
)

// View is the render model of a Context: everything a canvas needs to draw the
// objects, the control frame with its handles and the marquee.
type View struct {
	Mode         string                 `json:"mode"`
	Tool         Tool                   `json:"tool"`
	Objects      document.Objects       `json:"objects"`
	ActiveIndex  int                    `json:"activeIndex"`
	Selected     []int                  `json:"selected"`
	ControlFrame *geom.Frame            `json:"controlFrame,omitempty"`
	Handles      []transform.HandleSpec `json:"handles,omitempty"`
	HandleSize   float64                `json:"handleSize"`
	Marquee      *geom.Frame            `json:"marquee,omitempty"`
	Dragging     bool                   `json:"dragging"`
	Cursor       string                 `json:"cursor"`
}

// NewView derives the render model of c.
func NewView(c Context, s Settings) View {
	v := View{
		Mode:        c.Mode.String(),
		Tool:        c.Tool,
		Objects:     c.Objects,
		ActiveIndex: c.ActiveIndex,
		Selected:    c.Selected,
		HandleSize:  s.VertexSize,
		Dragging:    c.Dragging(),
		Cursor:      "default",
	}
	if v.Objects == nil {
		v.Objects = document.Objects{}
	}
	if v.Selected == nil {
		v.Selected = []int{}
	}

	if frame := c.ControlFrame(); frame != nil {
		v.ControlFrame = frame
		v.Handles = transform.Handles(*frame, s.RotateHandleLength)
	}
	if c.Mode == ModeSelecting && c.Marquee != nil {
		m := c.Marquee.Normalize()
		v.Marquee = &m
	}

	switch c.Mode {
	case ModeResizing:
		v.Cursor = c.ActiveHandle.Cursor()
	case ModeMoving:
		v.Cursor = "move"
	case ModeAdding, ModeSelecting:
		v.Cursor = "crosshair"
	}
	return v
}

// JSON encodes the view. The view holds only plain data, so encoding cannot fail.
func (v View) JSON() []byte {
	data, _ := json.Marshal(v)
	return data
}
