package editor

import (
	"fmt"

	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/geom"
	"github.com/inamate/canvas-editor/internal/transform"
)

// step advances the drag anchor to p and returns the pointer travel since the
// previous event. Without an anchor the travel is zero.
func step(c Context, p geom.Point) (Context, geom.Delta) {
	var d geom.Delta
	if c.Anchor != nil {
		d = p.Sub(*c.Anchor)
	}
	c.Anchor = ptr(p)
	return c, d
}

// endDrag clears the per-gesture fields.
func endDrag(c Context) Context {
	c.Anchor = nil
	c.ActiveHandle = transform.HandleNone
	return c
}

func clearSelection(c Context) Context {
	c.ActiveIndex = -1
	c.Selected = nil
	c.GroupFrame = nil
	return c
}

// Normal mode.

func (m *Machine) clickCanvas(c Context, _ Event) Context {
	c = clearSelection(c)
	c.Tool = ToolSelector
	return c
}

func (m *Machine) clickObject(c Context, ev Event) Context {
	e, _ := ev.(Click)
	c = clearSelection(c)
	if c.Objects.Valid(e.Hit.ObjectIndex) {
		c.ActiveIndex = e.Hit.ObjectIndex
	}
	return c
}

func (m *Machine) startResize(c Context, ev Event) Context {
	e, _ := ev.(PointerDown)
	c.ActiveHandle = e.Hit.HandleIndex
	c.Anchor = ptr(e.Point)
	return c
}

func (m *Machine) startAdd(c Context, ev Event) Context {
	e, _ := ev.(PointerDown)
	widget := document.WidgetType(c.Tool)
	obj := document.DrawObject{
		ID:         e.NewID,
		Frame:      geom.Frame{X: e.Point.X, Y: e.Point.Y},
		WidgetType: widget,
		Name:       fmt.Sprintf("%s %d", widget, c.Objects.CountType(widget)),
	}
	c = clearSelection(c)
	c.Objects, c.ActiveIndex = c.Objects.Insert(obj)
	c.ActiveHandle = transform.HandleAdd
	c.Anchor = ptr(e.Point)
	return c
}

// startMoveSelection drags whatever the control frame currently covers.
func (m *Machine) startMoveSelection(c Context, ev Event) Context {
	e, _ := ev.(PointerDown)
	if len(c.Selected) > 0 {
		c.ActiveIndex = -1
	}
	c.ActiveHandle = transform.HandleNone
	c.Anchor = ptr(e.Point)
	return c
}

func (m *Machine) startMoveObject(c Context, ev Event) Context {
	e, _ := ev.(PointerDown)
	c = clearSelection(c)
	if c.Objects.Valid(e.Hit.ObjectIndex) {
		c.ActiveIndex = e.Hit.ObjectIndex
	}
	c.ActiveHandle = transform.HandleNone
	c.Anchor = ptr(e.Point)
	return c
}

func (m *Machine) startSelect(c Context, ev Event) Context {
	e, _ := ev.(PointerDown)
	c = clearSelection(c)
	c.Marquee = &geom.Frame{X: e.Point.X, Y: e.Point.Y}
	c.Anchor = ptr(e.Point)
	return c
}

func (m *Machine) selectTool(c Context, ev Event) Context {
	e, _ := ev.(SelectTool)
	c = clearSelection(c)
	c.Tool = e.Tool
	c.ActiveHandle = transform.HandleNone
	return c
}

func (m *Machine) deleteObject(c Context, ev Event) Context {
	e, _ := ev.(DeleteObject)
	c = clearSelection(c)
	c.ActiveHandle = transform.HandleNone
	// An out-of-range index still drops the selection but keeps every object.
	if c.Objects.Valid(e.Index) {
		c.Objects = c.Objects.RemoveAt(e.Index)
	}
	return c
}

func (m *Machine) copyObject(c Context, ev Event) Context {
	e, _ := ev.(CopyObject)
	objs, idx := c.Objects.DuplicateAtOffset(e.Index, m.settings.DuplicateOffset)
	if idx < 0 {
		return c
	}
	if e.NewID != "" {
		dup := objs[idx]
		dup.ID = e.NewID
		objs[idx] = dup
	}
	c = clearSelection(c)
	c.Objects = objs
	c.ActiveIndex = idx
	c.ActiveHandle = transform.HandleNone
	return c
}

// Adding.

func (m *Machine) growObject(c Context, ev Event) Context {
	e, _ := ev.(PointerMove)
	c, d := step(c, e.Point)
	if !c.Objects.Valid(c.ActiveIndex) {
		return c
	}
	obj := c.Objects[c.ActiveIndex]
	obj.Frame = transform.Grow(obj.Frame, transform.HandleAdd, d)
	c.Objects = c.Objects.ReplaceAt(c.ActiveIndex, obj)
	return c
}

// finishAdd keeps the new object and re-arms the selector, or discards an
// object that never grew past MinObjectSize on either axis.
func (m *Machine) finishAdd(c Context, _ Event) Context {
	c = endDrag(c)
	if !c.Objects.Valid(c.ActiveIndex) {
		return c
	}
	obj := c.Objects[c.ActiveIndex]
	obj.Frame = obj.Frame.Normalize()
	if obj.Width < m.settings.MinObjectSize && obj.Height < m.settings.MinObjectSize {
		c.Objects = c.Objects.RemoveAt(c.ActiveIndex)
		c.ActiveIndex = -1
		return c
	}
	c.Objects = c.Objects.ReplaceAt(c.ActiveIndex, obj)
	c.Tool = ToolSelector
	return c
}

// Resizing.

func (m *Machine) resizeObjects(c Context, ev Event) Context {
	e, _ := ev.(PointerMove)
	c, d := step(c, e.Point)

	if c.ActiveHandle == transform.HandleRotate {
		return rotateTargets(c, e.Point)
	}
	if !c.ActiveHandle.IsResize() {
		return c
	}

	if len(c.Selected) > 0 {
		ref := groupFrame(c.Objects, c.Selected)
		if ref == nil {
			return c
		}
		objs := c.Objects.Clone()
		for _, idx := range c.Selected {
			if objs.Valid(idx) {
				objs[idx].Frame = transform.Resize(objs[idx].Frame, c.ActiveHandle, d, *ref)
			}
		}
		c.Objects = objs
		c.GroupFrame = groupFrame(objs, c.Selected)
		return c
	}

	if c.Objects.Valid(c.ActiveIndex) {
		obj := c.Objects[c.ActiveIndex]
		obj.Frame = transform.ResizeSelf(obj.Frame, c.ActiveHandle, d)
		c.Objects = c.Objects.ReplaceAt(c.ActiveIndex, obj)
	}
	return c
}

// rotateTargets turns the active object toward p. A multi-selection only turns
// its display frame; member objects keep their angles.
func rotateTargets(c Context, p geom.Point) Context {
	if len(c.Selected) > 0 {
		group := groupFrame(c.Objects, c.Selected)
		if group == nil {
			return c
		}
		rotated := transform.Rotate(*group, p)
		c.GroupFrame = &rotated
		return c
	}
	if c.Objects.Valid(c.ActiveIndex) {
		obj := c.Objects[c.ActiveIndex]
		obj.Frame = transform.Rotate(obj.Frame, p)
		c.Objects = c.Objects.ReplaceAt(c.ActiveIndex, obj)
	}
	return c
}

func (m *Machine) finishResize(c Context, _ Event) Context {
	c = endDrag(c)
	c.Tool = ToolSelector
	targets := c.Targets()
	if len(targets) == 0 {
		return c
	}
	objs := c.Objects.Clone()
	for _, idx := range targets {
		if objs.Valid(idx) {
			objs[idx].Frame = objs[idx].Frame.Normalize()
		}
	}
	c.Objects = objs
	if len(c.Selected) > 0 {
		c.GroupFrame = groupFrame(objs, c.Selected)
	}
	return c
}

// Moving.

func (m *Machine) moveObjects(c Context, ev Event) Context {
	e, _ := ev.(PointerMove)
	c, d := step(c, e.Point)
	targets := c.Targets()
	if len(targets) == 0 {
		return c
	}
	objs := c.Objects.Clone()
	for _, idx := range targets {
		if objs.Valid(idx) {
			objs[idx].Frame = transform.Move(objs[idx].Frame, d)
		}
	}
	c.Objects = objs
	if len(c.Selected) > 0 {
		c.GroupFrame = groupFrame(objs, c.Selected)
	}
	return c
}

func (m *Machine) finishMove(c Context, _ Event) Context {
	c = endDrag(c)
	c.Tool = ToolSelector
	return c
}

// Selecting.

func (m *Machine) selectObjects(c Context, ev Event) Context {
	e, _ := ev.(PointerMove)
	c, d := step(c, e.Point)
	marquee := geom.Frame{}
	if c.Marquee != nil {
		marquee = *c.Marquee
	}
	marquee.Width += d.DX
	marquee.Height += d.DY
	c.Marquee = &marquee

	var selected []int
	for i, obj := range c.Objects {
		if geom.InFrame(marquee, obj.Frame) {
			selected = append(selected, i)
		}
	}
	c.Selected = selected
	c.ActiveIndex = -1
	c.GroupFrame = groupFrame(c.Objects, selected)
	return c
}

// finishSelect drops the marquee. A selection of one collapses to that single
// active object.
func (m *Machine) finishSelect(c Context, _ Event) Context {
	c = endDrag(c)
	c.Marquee = nil
	c.Tool = ToolSelector
	if len(c.Selected) == 1 {
		idx := c.Selected[0]
		c = clearSelection(c)
		c.ActiveIndex = idx
	}
	return c
}
