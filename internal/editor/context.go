package editor

import (
	"slices"

	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/geom"
	"github.com/inamate/canvas-editor/internal/transform"
)

// Mode is the state of the interaction machine.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdding
	ModeMoving
	ModeResizing
	ModeSelecting
	ModeDisabled
)

var modeNames = [...]string{
	ModeNormal:    "normal",
	ModeAdding:    "adding",
	ModeMoving:    "moving",
	ModeResizing:  "resizing",
	ModeSelecting: "selecting",
	ModeDisabled:  "disabled",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Context is the complete state of an editing session. Transition never mutates
// a Context it is given: slices and pointers are replaced, not written through.
type Context struct {
	Mode    Mode
	Tool    Tool
	Objects document.Objects

	// ActiveIndex is the single selected object, -1 for none.
	ActiveIndex int
	// Selected is the multi-selection in z-order. When non-empty it drives the
	// control frame instead of ActiveIndex.
	Selected []int
	// GroupFrame is the display frame of a multi-selection. Its angle is only
	// non-zero while the group's rotation handle is dragged.
	GroupFrame *geom.Frame

	// ActiveHandle is the handle being dragged while resizing or rotating.
	ActiveHandle transform.Handle
	// Anchor is the last pointer position of the current drag, nil when idle.
	Anchor *geom.Point
	// Marquee is the selection rectangle while selecting.
	Marquee *geom.Frame
}

// NewContext returns an idle session with no objects.
func NewContext(s Settings) Context {
	return Context{
		Mode:         ModeNormal,
		Tool:         s.InitialTool,
		Objects:      document.Objects{},
		ActiveIndex:  -1,
		ActiveHandle: transform.HandleNone,
	}
}

// Dragging reports whether a pointer gesture is in progress.
func (c Context) Dragging() bool {
	return c.Anchor != nil
}

// IsSelected reports whether idx is part of the multi-selection.
func (c Context) IsSelected(idx int) bool {
	return slices.Contains(c.Selected, idx)
}

// Targets returns the indices a move or resize applies to: the multi-selection,
// or else the active object.
func (c Context) Targets() []int {
	if len(c.Selected) > 0 {
		return c.Selected
	}
	if c.Objects.Valid(c.ActiveIndex) {
		return []int{c.ActiveIndex}
	}
	return nil
}

// ControlFrame returns the frame the control handles are drawn on, or nil when
// nothing is selected.
func (c Context) ControlFrame() *geom.Frame {
	if len(c.Selected) > 0 {
		if c.GroupFrame != nil {
			f := *c.GroupFrame
			return &f
		}
		return groupFrame(c.Objects, c.Selected)
	}
	if c.Objects.Valid(c.ActiveIndex) {
		f := c.Objects[c.ActiveIndex].Frame
		return &f
	}
	return nil
}

// groupFrame is the rotation-reset envelope of the selected objects.
func groupFrame(objs document.Objects, selected []int) *geom.Frame {
	return geom.BoundingBoxOfMany(objs.Frames(selected), true)
}

func ptr[T any](v T) *T {
	return &v
}
