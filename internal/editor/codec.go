package editor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/geom"
	"github.com/inamate/canvas-editor/internal/transform"
)

var ErrUnknownEvent = errors.New("unknown event type")

// wireEvent is the JSON envelope hosts send events in. Missing fields fall back
// to -1 indices, an origin point and no tool.
type wireEvent struct {
	Type     EventKind   `json:"type"`
	Hit      *wireHit    `json:"hit,omitempty"`
	Point    *geom.Point `json:"point,omitempty"`
	Tool     *string     `json:"tool,omitempty"`
	Index    *int        `json:"index,omitempty"`
	ObjectID string      `json:"objectId,omitempty"`
}

type wireHit struct {
	Role        Role    `json:"role"`
	ObjectIndex *int    `json:"objectIndex,omitempty"`
	HandleIndex *int    `json:"handleIndex,omitempty"`
	WidgetType  *string `json:"widgetType,omitempty"`
}

func (w *wireHit) hit() Hit {
	h := Hit{ObjectIndex: -1, HandleIndex: transform.HandleNone}
	if w == nil {
		return h
	}
	h.Role = w.Role
	if w.ObjectIndex != nil {
		h.ObjectIndex = *w.ObjectIndex
	}
	if w.HandleIndex != nil {
		h.HandleIndex = transform.Handle(*w.HandleIndex)
	}
	if w.WidgetType != nil {
		h.WidgetType = document.WidgetType(*w.WidgetType)
	}
	return h
}

func (w wireEvent) point() geom.Point {
	if w.Point == nil {
		return geom.Point{}
	}
	return *w.Point
}

func (w wireEvent) index() int {
	if w.Index == nil {
		return -1
	}
	return *w.Index
}

// DecodeEvent parses one JSON event.
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	switch w.Type {
	case KindClick:
		return Click{Hit: w.Hit.hit()}, nil
	case KindPointerDown:
		return PointerDown{Hit: w.Hit.hit(), Point: w.point(), NewID: w.ObjectID}, nil
	case KindPointerMove:
		return PointerMove{Point: w.point()}, nil
	case KindPointerUp:
		return PointerUp{Point: w.point()}, nil
	case KindSelectTool:
		var tool Tool
		if w.Tool != nil {
			tool = Tool(*w.Tool)
		}
		return SelectTool{Tool: tool}, nil
	case KindDeleteObject:
		return DeleteObject{Index: w.index()}, nil
	case KindCopyObject:
		return CopyObject{Index: w.index(), NewID: w.ObjectID}, nil
	case KindDisable:
		return Disable{}, nil
	case KindEnable:
		return Enable{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, w.Type)
	}
}

// EncodeEvent is the inverse of DecodeEvent.
func EncodeEvent(ev Event) ([]byte, error) {
	if ev == nil {
		return nil, fmt.Errorf("encode event: %w", ErrUnknownEvent)
	}
	w := wireEvent{Type: ev.Kind()}

	switch e := ev.(type) {
	case Click:
		w.Hit = toWireHit(e.Hit)
	case PointerDown:
		w.Hit = toWireHit(e.Hit)
		w.Point = &e.Point
		w.ObjectID = e.NewID
	case PointerMove:
		w.Point = &e.Point
	case PointerUp:
		w.Point = &e.Point
	case SelectTool:
		tool := string(e.Tool)
		w.Tool = &tool
	case DeleteObject:
		w.Index = &e.Index
	case CopyObject:
		w.Index = &e.Index
		w.ObjectID = e.NewID
	case Disable, Enable:
	default:
		return nil, fmt.Errorf("encode event: %w: %T", ErrUnknownEvent, ev)
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return data, nil
}

func toWireHit(h Hit) *wireHit {
	obj := h.ObjectIndex
	handle := int(h.HandleIndex)
	w := &wireHit{Role: h.Role, ObjectIndex: &obj, HandleIndex: &handle}
	if h.WidgetType != "" {
		widget := string(h.WidgetType)
		w.WidgetType = &widget
	}
	return w
}
