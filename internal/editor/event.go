package editor

import (
	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/geom"
	"github.com/inamate/canvas-editor/internal/transform"
)

// Role is what the pointer landed on, as reported by the hit-testing layer.
type Role string

const (
	RoleNone          Role = ""
	RoleBackground    Role = "background"
	RoleDrawObject    Role = "drawObject"
	RoleControlFrame  Role = "controlFrame"
	RoleControlHandle Role = "controlHandle"
)

// Hit describes the target of a pointer event. Fields that do not apply to the
// role are -1 or empty.
type Hit struct {
	Role        Role                `json:"role"`
	ObjectIndex int                 `json:"objectIndex"`
	HandleIndex transform.Handle    `json:"handleIndex"`
	WidgetType  document.WidgetType `json:"widgetType,omitempty"`
}

// BackgroundHit is a hit on the empty canvas.
func BackgroundHit() Hit {
	return Hit{Role: RoleBackground, ObjectIndex: -1, HandleIndex: transform.HandleNone}
}

// ObjectHit is a hit on the object at idx.
func ObjectHit(idx int, widget document.WidgetType) Hit {
	return Hit{Role: RoleDrawObject, ObjectIndex: idx, HandleIndex: transform.HandleNone, WidgetType: widget}
}

// HandleHit is a hit on one of the control frame's handles.
func HandleHit(h transform.Handle) Hit {
	return Hit{Role: RoleControlHandle, ObjectIndex: -1, HandleIndex: h}
}

// FrameHit is a hit inside the control frame but on no object or handle.
func FrameHit() Hit {
	return Hit{Role: RoleControlFrame, ObjectIndex: -1, HandleIndex: transform.HandleNone}
}

// EventKind names a semantic event.
type EventKind string

const (
	KindClick        EventKind = "click"
	KindPointerDown  EventKind = "pointerDown"
	KindPointerMove  EventKind = "pointerMove"
	KindPointerUp    EventKind = "pointerUp"
	KindSelectTool   EventKind = "selectTool"
	KindDeleteObject EventKind = "deleteObject"
	KindCopyObject   EventKind = "copyObject"
	KindDisable      EventKind = "disable"
	KindEnable       EventKind = "enable"
)

// Event is one semantic input to the state machine. The concrete types below
// are the only implementations; pass them by value.
type Event interface {
	Kind() EventKind
}

// Click is a press and release without a drag in between.
type Click struct {
	Hit Hit
}

// PointerDown starts a gesture. NewID, when set, becomes the ID of an object the
// gesture creates.
type PointerDown struct {
	Hit   Hit
	Point geom.Point
	NewID string
}

// PointerMove reports the pointer position during a gesture.
type PointerMove struct {
	Point geom.Point
}

// PointerUp ends a gesture.
type PointerUp struct {
	Point geom.Point
}

// SelectTool arms a palette tool.
type SelectTool struct {
	Tool Tool
}

// DeleteObject removes the object at Index.
type DeleteObject struct {
	Index int
}

// CopyObject duplicates the object at Index. NewID, when set, becomes the ID of
// the copy.
type CopyObject struct {
	Index int
	NewID string
}

// Disable suspends interaction, e.g. while a modal is open.
type Disable struct{}

// Enable resumes interaction.
type Enable struct{}

func (Click) Kind() EventKind        { return KindClick }
func (PointerDown) Kind() EventKind  { return KindPointerDown }
func (PointerMove) Kind() EventKind  { return KindPointerMove }
func (PointerUp) Kind() EventKind    { return KindPointerUp }
func (SelectTool) Kind() EventKind   { return KindSelectTool }
func (DeleteObject) Kind() EventKind { return KindDeleteObject }
func (CopyObject) Kind() EventKind   { return KindCopyObject }
func (Disable) Kind() EventKind      { return KindDisable }
func (Enable) Kind() EventKind       { return KindEnable }
