package editor

import (
	"encoding/json"
	"testing"

	"github.com/inamate/canvas-editor/internal/geom"
	"github.com/inamate/canvas-editor/internal/transform"
)

func TestNewView(t *testing.T) {
	s := DefaultSettings()

	t.Run("idle", func(t *testing.T) {
		v := NewView(canvas(), s)
		if v.ControlFrame != nil || len(v.Handles) != 0 || v.Marquee != nil {
			t.Errorf("idle view has chrome: %+v", v)
		}
		if v.Mode != "normal" || v.Cursor != "default" {
			t.Errorf("mode = %q cursor = %q", v.Mode, v.Cursor)
		}
	})

	t.Run("active object", func(t *testing.T) {
		c := canvas()
		c.ActiveIndex = 1
		v := NewView(c, s)
		if v.ControlFrame == nil || !frameEq(*v.ControlFrame, c.Objects[1].Frame) {
			t.Fatalf("control frame = %+v", v.ControlFrame)
		}
		if len(v.Handles) != 9 {
			t.Errorf("handles = %d, want 9", len(v.Handles))
		}
		if v.HandleSize != s.VertexSize {
			t.Errorf("handle size = %v", v.HandleSize)
		}
	})

	t.Run("selection without group frame", func(t *testing.T) {
		c := canvas()
		c.Selected = []int{0, 1}
		v := NewView(c, s)
		if v.ControlFrame == nil || !frameEq(*v.ControlFrame, geom.Frame{X: 10, Y: 10, Width: 60, Height: 60}) {
			t.Errorf("control frame = %+v", v.ControlFrame)
		}
	})

	t.Run("marquee is normalized", func(t *testing.T) {
		c := run(canvas(),
			PointerDown{Hit: BackgroundHit(), Point: pt(100, 100)},
			PointerMove{Point: pt(90, 80)},
		)
		v := NewView(c, s)
		if v.Marquee == nil || !frameEq(*v.Marquee, geom.Frame{X: 90, Y: 80, Width: 10, Height: 20}) {
			t.Errorf("marquee = %+v", v.Marquee)
		}
		if v.Cursor != "crosshair" || !v.Dragging {
			t.Errorf("cursor = %q dragging = %v", v.Cursor, v.Dragging)
		}
	})

	t.Run("resize cursor follows handle", func(t *testing.T) {
		c := canvas()
		c.ActiveIndex = 0
		c = Transition(c, PointerDown{Hit: HandleHit(transform.HandleTopLeft), Point: pt(10, 10)})
		if got, want := NewView(c, s).Cursor, transform.HandleTopLeft.Cursor(); got != want {
			t.Errorf("cursor = %q, want %q", got, want)
		}
	})
}

func TestView_JSON(t *testing.T) {
	var out map[string]any
	if err := json.Unmarshal(NewView(NewContext(DefaultSettings()), DefaultSettings()).JSON(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["mode"] != "normal" || out["tool"] != "selector" {
		t.Errorf("mode/tool = %v/%v", out["mode"], out["tool"])
	}
	if sel, ok := out["selected"].([]any); !ok || len(sel) != 0 {
		t.Errorf("selected = %v, want empty array", out["selected"])
	}
	if objs, ok := out["objects"].([]any); !ok || len(objs) != 0 {
		t.Errorf("objects = %v, want empty array", out["objects"])
	}
	if _, ok := out["controlFrame"]; ok {
		t.Error("controlFrame should be omitted when nothing is selected")
	}
}
