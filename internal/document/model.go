package document

import (
	"github.com/inamate/canvas-editor/internal/geom"
)

// DuplicateOffset is how far a copy is shifted from its source on both axes.
const DuplicateOffset = 20.0

// WidgetType tags what an object represents. The editor treats every type as an
// opaque rectangle.
type WidgetType string

const (
	WidgetImage   WidgetType = "image"
	WidgetVideo   WidgetType = "video"
	WidgetYoutube WidgetType = "youtube"
	WidgetShape   WidgetType = "shape"
	WidgetText    WidgetType = "text"
	WidgetLine    WidgetType = "line"
)

// DrawObject is one positioned, sized and rotated object on the canvas.
// Its identity is its index in Objects; ID is informational.
type DrawObject struct {
	ID string `json:"id,omitempty"`
	geom.Frame
	WidgetType WidgetType `json:"widgetType"`
	LayerIdx   int        `json:"layerIdx"`
	Name       string     `json:"name"`
}

// Objects is the ordered object store. Order is z-order, back to front.
// Every method returns a new slice and leaves the receiver untouched.
type Objects []DrawObject

// Valid reports whether idx addresses an object.
func (o Objects) Valid(idx int) bool {
	return idx >= 0 && idx < len(o)
}

// Clone returns a copy that shares no backing array with o.
func (o Objects) Clone() Objects {
	if o == nil {
		return nil
	}
	out := make(Objects, len(o))
	copy(out, o)
	return out
}

// Insert appends obj and returns the new store and obj's index.
func (o Objects) Insert(obj DrawObject) (Objects, int) {
	out := make(Objects, len(o), len(o)+1)
	copy(out, o)
	return append(out, obj), len(o)
}

// RemoveAt drops the object at idx. An out-of-range idx returns an unchanged copy.
func (o Objects) RemoveAt(idx int) Objects {
	if !o.Valid(idx) {
		return o.Clone()
	}
	out := make(Objects, 0, len(o)-1)
	out = append(out, o[:idx]...)
	return append(out, o[idx+1:]...)
}

// ReplaceAt swaps the object at idx for obj. An out-of-range idx returns an
// unchanged copy.
func (o Objects) ReplaceAt(idx int, obj DrawObject) Objects {
	out := o.Clone()
	if o.Valid(idx) {
		out[idx] = obj
	}
	return out
}

// DuplicateAt inserts a copy of the object at idx right after it, shifted by
// DuplicateOffset and named "<name> copy". It returns the new store and the
// copy's index, or an unchanged copy and -1 when idx is out of range.
func (o Objects) DuplicateAt(idx int) (Objects, int) {
	return o.DuplicateAtOffset(idx, DuplicateOffset)
}

// DuplicateAtOffset is DuplicateAt with an explicit offset.
func (o Objects) DuplicateAtOffset(idx int, offset float64) (Objects, int) {
	if !o.Valid(idx) {
		return o.Clone(), -1
	}

	dup := o[idx]
	dup.X += offset
	dup.Y += offset
	dup.Name += " copy"

	out := make(Objects, 0, len(o)+1)
	out = append(out, o[:idx+1]...)
	out = append(out, dup)
	out = append(out, o[idx+1:]...)
	return out, idx + 1
}

// Frames returns the frames of the objects at indices, skipping invalid ones.
func (o Objects) Frames(indices []int) []geom.Frame {
	frames := make([]geom.Frame, 0, len(indices))
	for _, idx := range indices {
		if o.Valid(idx) {
			frames = append(frames, o[idx].Frame)
		}
	}
	return frames
}

// CountType returns how many objects carry widget type t.
func (o Objects) CountType(t WidgetType) int {
	n := 0
	for _, obj := range o {
		if obj.WidgetType == t {
			n++
		}
	}
	return n
}
