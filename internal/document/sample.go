package document

import (
	"fmt"
	"time"

	"github.com/inamate/canvas-editor/internal/geom"
	"github.com/inamate/canvas-editor/internal/typeid"
)

// NewSampleDocument returns a canvas with a few objects, one of them rotated, for
// playgrounds and demos.
func NewSampleDocument(id string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)

	doc := NewEmptyDocument(id, "Untitled")
	doc.CreatedAt = now
	doc.UpdatedAt = now

	samples := []struct {
		widget WidgetType
		frame  geom.Frame
	}{
		{WidgetImage, geom.Frame{X: 60, Y: 60, Width: 240, Height: 160}},
		{WidgetText, geom.Frame{X: 360, Y: 80, Width: 200, Height: 48}},
		{WidgetImage, geom.Frame{X: 420, Y: 260, Width: 180, Height: 120, Angle: 20}},
		{WidgetShape, geom.Frame{X: 120, Y: 320, Width: 100, Height: 100, Angle: -35}},
	}

	for _, s := range samples {
		obj := DrawObject{
			ID:         typeid.NewObjectID(),
			Frame:      s.frame,
			WidgetType: s.widget,
			Name:       fmt.Sprintf("%s %d", s.widget, doc.Objects.CountType(s.widget)),
		}
		doc.Objects, _ = doc.Objects.Insert(obj)
	}

	return doc
}
