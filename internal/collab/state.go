package collab

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/editor"
)

// ErrPointerBusy is returned when a participant sends input while another
// participant is in the middle of a drag.
var ErrPointerBusy = errors.New("pointer held by another participant")

// RoomState is the authoritative editing state of a room. A single engine is
// shared by every participant; whoever starts a drag holds the pointer until the
// drag ends.
type RoomState struct {
	mu     sync.Mutex
	engine *editor.Engine
	doc    *document.Document
	seq    int64
	holder string
	dirty  bool
}

// NewRoomState loads doc into a fresh engine.
func NewRoomState(doc *document.Document, engine *editor.Engine) *RoomState {
	engine.Load(doc.Objects)
	return &RoomState{
		engine: engine,
		doc:    doc,
	}
}

// Apply runs ev on behalf of participant. It reports whether the event was
// accepted; ignored events leave the state and sequence number untouched.
func (rs *RoomState) Apply(participant string, ev editor.Event) (editor.View, int64, bool, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.engine.Dragging() && rs.holder != "" && rs.holder != participant {
		return rs.engine.View(), rs.seq, false, ErrPointerBusy
	}

	if !rs.engine.Accepts(ev) {
		return rs.engine.View(), rs.seq, false, nil
	}

	before := rs.engine.Objects()
	wasDragging := rs.engine.Dragging()
	ctx := rs.engine.Dispatch(ev)

	switch {
	case ctx.Dragging() && !wasDragging:
		rs.holder = participant
	case !ctx.Dragging():
		rs.holder = ""
	}
	if changed(before, ctx) {
		rs.dirty = true
	}

	rs.seq++
	return rs.engine.View(), rs.seq, true, nil
}

// Release ends a drag held by participant, e.g. when it disconnects.
func (rs *RoomState) Release(participant string) (editor.View, int64, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.holder != participant || !rs.engine.Dragging() {
		return rs.engine.View(), rs.seq, false
	}

	anchor := rs.engine.Context().Anchor
	before := rs.engine.Objects()
	ctx := rs.engine.Dispatch(editor.PointerUp{Point: *anchor})
	if changed(before, ctx) {
		rs.dirty = true
	}
	rs.holder = ""
	rs.seq++
	return rs.engine.View(), rs.seq, true
}

// View returns the current render model and sequence number.
func (rs *RoomState) View() (editor.View, int64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.engine.View(), rs.seq
}

// Holder returns the participant holding the pointer, or "".
func (rs *RoomState) Holder() string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.holder
}

// IsDirty reports whether objects changed since the last MarkClean.
func (rs *RoomState) IsDirty() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.dirty
}

func (rs *RoomState) MarkClean() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.dirty = false
}

// Document returns a copy of the room document carrying the current objects.
func (rs *RoomState) Document() *document.Document {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	doc := *rs.doc
	doc.Objects = rs.engine.Objects().Clone()
	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return &doc
}

func changed(before document.Objects, ctx editor.Context) bool {
	return !slices.Equal(before, ctx.Objects)
}
