package editor

import (
	"fmt"
	"log/slog"

	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/geom"
	"github.com/inamate/canvas-editor/internal/typeid"
)

// Engine owns one editing session: the current Context and the machine that
// advances it. It is not safe for concurrent use; hosts serialize access.
type Engine struct {
	machine *Machine
	ctx     Context
	logger  *slog.Logger

	// newID names objects created by add and copy events that carry no ID.
	newID func() string

	// press tracks the gesture started by Press for click detection.
	press *press
}

type press struct {
	hit    Hit
	start  geom.Point
	moved  bool
	adding bool
}

// NewEngine creates an engine with an empty canvas. A nil logger discards
// output.
func NewEngine(s Settings, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		machine: NewMachine(s),
		ctx:     NewContext(s),
		logger:  logger,
		newID:   typeid.NewObjectID,
	}
}

// SetIDGenerator replaces the object ID source.
func (e *Engine) SetIDGenerator(fn func() string) {
	e.newID = fn
}

// --- Commands ---

// Dispatch applies ev and returns the resulting context.
func (e *Engine) Dispatch(ev Event) Context {
	ev = e.stamp(ev)

	prev := e.ctx
	rule := e.machine.RuleName(prev, ev)
	if rule == "" {
		if ev != nil {
			e.logger.Debug("event ignored", "event", ev.Kind(), "mode", prev.Mode.String())
		}
		return prev
	}

	e.ctx = e.machine.Transition(prev, ev)
	if e.ctx.Mode != prev.Mode {
		e.logger.Debug("mode changed",
			"rule", rule,
			"from", prev.Mode.String(),
			"to", e.ctx.Mode.String(),
		)
	}
	if len(e.ctx.Objects) != len(prev.Objects) {
		e.logger.Info("objects changed",
			"rule", rule,
			"count", len(e.ctx.Objects),
		)
	}
	return e.ctx
}

// stamp fills in IDs for objects an event may create.
func (e *Engine) stamp(ev Event) Event {
	switch v := ev.(type) {
	case PointerDown:
		if v.NewID == "" && e.ctx.Mode == ModeNormal && canAdd(e.ctx, v) {
			v.NewID = e.newID()
		}
		return v
	case CopyObject:
		if v.NewID == "" && e.ctx.Objects.Valid(v.Index) {
			v.NewID = e.newID()
		}
		return v
	}
	return ev
}

// DispatchJSON decodes and applies one JSON event.
func (e *Engine) DispatchJSON(data []byte) (Context, error) {
	ev, err := DecodeEvent(data)
	if err != nil {
		return e.ctx, err
	}
	return e.Dispatch(ev), nil
}

// Press starts a pointer gesture on hit. Together with Drag and Release it
// turns raw pointer input into events, emitting a Click for a press that is
// released without travelling past the drag threshold.
func (e *Engine) Press(hit Hit, p geom.Point) Context {
	e.press = &press{hit: hit, start: p}
	e.Dispatch(PointerDown{Hit: hit, Point: p})
	e.press.adding = e.ctx.Mode == ModeAdding
	return e.ctx
}

// Drag reports pointer travel during a gesture.
func (e *Engine) Drag(p geom.Point) Context {
	if e.press != nil && !e.press.moved {
		d := p.Sub(e.press.start)
		limit := e.machine.settings.DragThreshold
		if d.DX*d.DX+d.DY*d.DY > limit*limit {
			e.press.moved = true
		}
	}
	return e.Dispatch(PointerMove{Point: p})
}

// Release ends the gesture started by Press.
func (e *Engine) Release(p geom.Point) Context {
	pr := e.press
	e.press = nil
	e.Dispatch(PointerUp{Point: p})
	if pr != nil && !pr.moved && !pr.adding {
		e.Dispatch(Click{Hit: pr.hit})
	}
	return e.ctx
}

// Load replaces the canvas contents and resets the interaction state.
func (e *Engine) Load(objs document.Objects) {
	e.ctx = NewContext(e.machine.settings)
	e.ctx.Objects = objs.Clone()
	if e.ctx.Objects == nil {
		e.ctx.Objects = document.Objects{}
	}
	e.press = nil
}

// LoadDocument loads the objects of doc.
func (e *Engine) LoadDocument(doc *document.Document) error {
	if doc == nil {
		return fmt.Errorf("load document: nil document")
	}
	e.Load(doc.Objects)
	return nil
}

// --- Queries ---

// Accepts reports whether ev would fire a transition in the current state.
func (e *Engine) Accepts(ev Event) bool {
	return e.machine.Accepts(e.ctx, ev)
}

// Context returns the current state.
func (e *Engine) Context() Context {
	return e.ctx
}

// Objects returns the current object store.
func (e *Engine) Objects() document.Objects {
	return e.ctx.Objects
}

// Mode returns the current machine mode.
func (e *Engine) Mode() Mode {
	return e.ctx.Mode
}

// Dragging reports whether a pointer gesture is in progress.
func (e *Engine) Dragging() bool {
	return e.ctx.Dragging()
}

// Settings returns the engine's tuning.
func (e *Engine) Settings() Settings {
	return e.machine.settings
}

// View returns the render model of the current state.
func (e *Engine) View() View {
	return NewView(e.ctx, e.machine.settings)
}

// HitTest classifies the canvas point p against the current view.
func (e *Engine) HitTest(p geom.Point) Hit {
	return Classify(e.View(), p)
}
