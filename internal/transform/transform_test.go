package transform

import (
	"math"
	"testing"

	"github.com/inamate/canvas-editor/internal/geom"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func approxFrame(a, b geom.Frame) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) &&
		approx(a.Width, b.Width) && approx(a.Height, b.Height) &&
		approx(a.Angle, b.Angle)
}

func TestMove(t *testing.T) {
	f := geom.Frame{X: 1, Y: 2, Width: 3, Height: 4, Angle: 5}
	got := Move(f, geom.Delta{DX: 10, DY: -20})
	want := geom.Frame{X: 11, Y: -18, Width: 3, Height: 4, Angle: 5}
	if got != want {
		t.Errorf("Move() = %+v, want %+v", got, want)
	}
}

func TestResize_BottomRightKeepsOrigin(t *testing.T) {
	deltas := []geom.Delta{{DX: 10, DY: 5}, {DX: -3, DY: 40}, {DX: 0, DY: 0}, {DX: -50, DY: -50}}
	f := geom.Frame{X: 10, Y: 20, Width: 40, Height: 30}

	for _, d := range deltas {
		got := Resize(f, HandleBottomRight, d, f)
		if got.X != f.X || got.Y != f.Y {
			t.Errorf("delta %+v moved origin to (%v, %v)", d, got.X, got.Y)
		}
		wantW := f.Width * (f.Width + d.DX) / f.Width
		if !approx(got.Width, wantW) {
			t.Errorf("delta %+v width = %v, want %v", d, got.Width, wantW)
		}
		if !approx(got.Height, f.Height*(f.Width+d.DX)/f.Width) {
			t.Errorf("delta %+v height = %v, want uniform scale", d, got.Height)
		}
	}
}

func TestResize_TopLeftKeepsBottomRight(t *testing.T) {
	deltas := []geom.Delta{{DX: 10, DY: 5}, {DX: -3, DY: 40}, {DX: 7, DY: -7}}
	f := geom.Frame{X: 10, Y: 20, Width: 40, Height: 30}

	for _, d := range deltas {
		got := Resize(f, HandleTopLeft, d, f)
		if !approx(got.X+got.Width, f.X+f.Width) {
			t.Errorf("delta %+v right edge = %v, want %v", d, got.X+got.Width, f.X+f.Width)
		}
		if !approx(got.Y+got.Height, f.Y+f.Height) {
			t.Errorf("delta %+v bottom edge = %v, want %v", d, got.Y+got.Height, f.Y+f.Height)
		}
	}
}

func TestResize_EdgeHandles(t *testing.T) {
	f := geom.Frame{X: 10, Y: 20, Width: 40, Height: 30}
	d := geom.Delta{DX: 8, DY: 6}

	tests := []struct {
		name string
		h    Handle
		want geom.Frame
	}{
		{"top-center", HandleTopCenter, geom.Frame{X: 10, Y: 26, Width: 40, Height: 24}},
		{"middle-right", HandleMiddleRight, geom.Frame{X: 10, Y: 20, Width: 48, Height: 30}},
		{"bottom-center", HandleBottomCenter, geom.Frame{X: 10, Y: 20, Width: 40, Height: 36}},
		{"middle-left", HandleMiddleLeft, geom.Frame{X: 18, Y: 20, Width: 32, Height: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resize(f, tt.h, d, f)
			if !approxFrame(got, tt.want) {
				t.Errorf("Resize(%s) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestResize_GroupKeepsLayout(t *testing.T) {
	a := geom.Frame{X: 0, Y: 0, Width: 10, Height: 10}
	b := geom.Frame{X: 30, Y: 20, Width: 10, Height: 20}
	ref := *geom.BoundingBoxOfMany([]geom.Frame{a, b}, true)

	// Doubling the group from the bottom-right corner.
	d := geom.Delta{DX: ref.Width, DY: 0}
	gotA := Resize(a, HandleBottomRight, d, ref)
	gotB := Resize(b, HandleBottomRight, d, ref)

	if !approxFrame(gotA, geom.Frame{X: 0, Y: 0, Width: 20, Height: 20}) {
		t.Errorf("a = %+v", gotA)
	}
	if !approxFrame(gotB, geom.Frame{X: 60, Y: 40, Width: 20, Height: 40}) {
		t.Errorf("b = %+v", gotB)
	}

	// Dragging the left edge: the right edge of the group stays put.
	d = geom.Delta{DX: -ref.Width, DY: 0}
	gotA = Resize(a, HandleMiddleLeft, d, ref)
	gotB = Resize(b, HandleMiddleLeft, d, ref)
	if !approx(gotB.X+gotB.Width, b.X+b.Width) {
		t.Errorf("rightmost member moved: %+v", gotB)
	}
	if !approxFrame(gotA, geom.Frame{X: -40, Y: 0, Width: 20, Height: 10}) {
		t.Errorf("a after left drag = %+v", gotA)
	}
}

func TestResize_DegenerateReference(t *testing.T) {
	f := geom.Frame{X: 5, Y: 5, Width: 0, Height: 0}

	for h := HandleTopLeft; h <= HandleMiddleLeft; h++ {
		got := Resize(f, h, geom.Delta{DX: 10, DY: 10}, f)
		if math.IsNaN(got.X) || math.IsNaN(got.Y) || math.IsNaN(got.Width) || math.IsNaN(got.Height) {
			t.Fatalf("handle %s produced NaN: %+v", h, got)
		}
		if got != f {
			t.Errorf("handle %s changed a zero-size frame: %+v", h, got)
		}
	}

	// Zero width with a corner handle falls back to the vertical ratio.
	line := geom.Frame{X: 0, Y: 0, Width: 0, Height: 10}
	got := Resize(line, HandleBottomRight, geom.Delta{DX: 3, DY: 10}, line)
	if !approx(got.Height, 20) || got.Width != 0 {
		t.Errorf("vertical fallback = %+v", got)
	}
}

func TestResize_IgnoresNonResizeHandles(t *testing.T) {
	f := geom.Frame{X: 1, Y: 1, Width: 10, Height: 10}
	for _, h := range []Handle{HandleNone, HandleRotate, Handle(42)} {
		if got := Resize(f, h, geom.Delta{DX: 5, DY: 5}, f); got != f {
			t.Errorf("handle %d changed frame: %+v", h, got)
		}
	}
}

func TestResizeSelf_RotatedKeepsAnchor(t *testing.T) {
	f := geom.Frame{X: 100, Y: 100, Width: 60, Height: 20, Angle: 30}

	for h := HandleTopLeft; h <= HandleMiddleLeft; h++ {
		got := ResizeSelf(f, h, geom.Delta{DX: 12, DY: -7})

		anchor := h.Opposite()
		before := geom.RotatePoint(f.Radians(), handlePoint(f, anchor), f.Center())
		after := geom.RotatePoint(got.Radians(), handlePoint(got, anchor), got.Center())
		if math.Abs(before.X-after.X) > 1e-6 || math.Abs(before.Y-after.Y) > 1e-6 {
			t.Errorf("handle %s: anchor moved from %v to %v", h, before, after)
		}
		if got.Angle != f.Angle {
			t.Errorf("handle %s: angle changed to %v", h, got.Angle)
		}
	}
}

func TestResizeSelf_UsesLocalAxes(t *testing.T) {
	// Rotated a quarter turn, dragging the middle-right handle downwards on screen
	// lengthens the object.
	f := geom.Frame{X: 0, Y: 0, Width: 40, Height: 10, Angle: 90}
	got := ResizeSelf(f, HandleMiddleRight, geom.Delta{DX: 0, DY: 10})
	if !approx(got.Width, 50) || !approx(got.Height, 10) {
		t.Errorf("ResizeSelf = %+v, want width 50 height 10", got)
	}
}

func TestResizeSelf_UnrotatedMatchesResize(t *testing.T) {
	f := geom.Frame{X: 3, Y: 4, Width: 20, Height: 30}
	d := geom.Delta{DX: 5, DY: -2}
	for h := HandleTopLeft; h <= HandleMiddleLeft; h++ {
		if got, want := ResizeSelf(f, h, d), Resize(f, h, d, f); got != want {
			t.Errorf("handle %s: ResizeSelf = %+v, Resize = %+v", h, got, want)
		}
	}
}

func TestGrow(t *testing.T) {
	f := geom.Frame{X: 50, Y: 50}
	got := Grow(f, HandleAdd, geom.Delta{DX: 30, DY: 40})
	if got != (geom.Frame{X: 50, Y: 50, Width: 30, Height: 40}) {
		t.Errorf("Grow(add) = %+v", got)
	}

	got = Grow(geom.Frame{X: 10, Y: 10, Width: 20, Height: 20}, HandleTopLeft, geom.Delta{DX: 5, DY: -5})
	if got != (geom.Frame{X: 15, Y: 5, Width: 15, Height: 25}) {
		t.Errorf("Grow(top-left) = %+v", got)
	}

	got = Grow(geom.Frame{X: 10, Y: 10, Width: 5, Height: 5}, HandleBottomRight, geom.Delta{DX: -8, DY: 0})
	if got.Width != -3 {
		t.Errorf("Grow should allow a negative width, got %+v", got)
	}
}

func TestRotate(t *testing.T) {
	f := geom.Frame{X: 0, Y: 0, Width: 10, Height: 10}
	got := Rotate(f, geom.Point{X: 5, Y: 100})
	if !approx(got.Angle, 90) {
		t.Errorf("Rotate angle = %v, want 90", got.Angle)
	}
	if got.X != f.X || got.Width != f.Width {
		t.Errorf("Rotate changed geometry: %+v", got)
	}
}

func TestHandles(t *testing.T) {
	f := geom.Frame{X: 0, Y: 0, Width: 100, Height: 50}
	specs := Handles(f, 100)

	if len(specs) != 9 {
		t.Fatalf("len(Handles) = %d, want 9", len(specs))
	}

	want := []struct {
		desc   string
		cursor string
		pos    geom.Point
	}{
		{"top-left", "nwse-resize", geom.Point{X: 0, Y: 0}},
		{"top-center", "row-resize", geom.Point{X: 50, Y: 0}},
		{"top-right", "nesw-resize", geom.Point{X: 100, Y: 0}},
		{"middle-right", "col-resize", geom.Point{X: 100, Y: 25}},
		{"bottom-right", "nwse-resize", geom.Point{X: 100, Y: 50}},
		{"bottom-center", "row-resize", geom.Point{X: 50, Y: 50}},
		{"bottom-left", "nesw-resize", geom.Point{X: 0, Y: 50}},
		{"middle-left", "col-resize", geom.Point{X: 0, Y: 25}},
		{"rotate", "grabbing", geom.Point{X: 200, Y: 25}},
	}

	for i, w := range want {
		s := specs[i]
		if int(s.Index) != i || s.Desc != w.desc || s.Cursor != w.cursor {
			t.Errorf("handle %d = %+v, want %s/%s", i, s, w.desc, w.cursor)
		}
		if !approx(s.Position.X, w.pos.X) || !approx(s.Position.Y, w.pos.Y) {
			t.Errorf("handle %d position = %v, want %v", i, s.Position, w.pos)
		}
	}
}

func TestHandles_Rotated(t *testing.T) {
	f := geom.Frame{X: 0, Y: 0, Width: 100, Height: 50, Angle: 180}
	specs := Handles(f, 0)

	// Half a turn swaps top-left and bottom-right.
	tl := specs[HandleTopLeft].Position
	if !approx(tl.X, 100) || !approx(tl.Y, 50) {
		t.Errorf("rotated top-left = %v, want (100, 50)", tl)
	}
}
