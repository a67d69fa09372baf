package editor

import (
	"math"

	"github.com/inamate/canvas-editor/internal/geom"
)

// Classify resolves which part of the view is under p. Handles win over
// objects, objects are tested front to back, and the control frame body catches
// what is left inside it.
func Classify(v View, p geom.Point) Hit {
	half := v.HandleSize / 2
	for i := len(v.Handles) - 1; i >= 0; i-- {
		h := v.Handles[i]
		if math.Abs(p.X-h.Position.X) <= half && math.Abs(p.Y-h.Position.Y) <= half {
			return HandleHit(h.Index)
		}
	}

	for i := len(v.Objects) - 1; i >= 0; i-- {
		obj := v.Objects[i]
		if obj.ContainsPoint(p) {
			return ObjectHit(i, obj.WidgetType)
		}
	}

	if v.ControlFrame != nil && v.ControlFrame.ContainsPoint(p) {
		return FrameHit()
	}
	return BackgroundHit()
}
