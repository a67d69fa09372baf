//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/inamate/canvas-editor/internal/config"
	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/editor"
	"github.com/inamate/canvas-editor/internal/geom"
)

var eng *editor.Engine

func main() {
	settings := editor.DefaultSettings()
	if v := js.Global().Get("canvasEditorSettings"); v.Type() == js.TypeString {
		s, err := config.ParseSettings(v.String())
		if err != nil {
			slog.Warn("invalid editor settings, using defaults", "error", err)
		} else {
			settings = s
		}
	}
	eng = editor.NewEngine(settings, slog.Default())

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	api.Set("load", js.FuncOf(load))
	api.Set("loadSample", js.FuncOf(loadSample))
	api.Set("dispatch", js.FuncOf(dispatch))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))

	// --- Queries (frontend ← engine) ---
	api.Set("view", js.FuncOf(view))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getObjects", js.FuncOf(getObjects))

	js.Global().Set("canvasEditor", api)
	js.Global().Set("canvasEditorReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func viewResult() interface{} {
	return js.ValueOf(string(eng.View().JSON()))
}

func point(args []js.Value) (geom.Point, bool) {
	if len(args) < 2 {
		return geom.Point{}, false
	}
	return geom.Point{X: args[0].Float(), Y: args[1].Float()}, true
}

// --- Command Handlers ---

// load accepts either a document or a bare object array.
func load(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}
	data := []byte(args[0].String())

	var objs document.Objects
	if err := json.Unmarshal(data, &objs); err == nil {
		eng.Load(objs)
		return viewResult()
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errorResult(err)
	}
	if err := eng.LoadDocument(&doc); err != nil {
		return errorResult(err)
	}
	return viewResult()
}

func loadSample(this js.Value, args []js.Value) interface{} {
	id := "sess_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	eng.LoadDocument(document.NewSampleDocument(id))
	return viewResult()
}

func dispatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing event JSON"})
	}
	if _, err := eng.DispatchJSON([]byte(args[0].String())); err != nil {
		return errorResult(err)
	}
	return viewResult()
}

// pointerDown classifies the point itself so the frontend only reports
// coordinates.
func pointerDown(this js.Value, args []js.Value) interface{} {
	p, ok := point(args)
	if !ok {
		return viewResult()
	}
	eng.Press(eng.HitTest(p), p)
	return viewResult()
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	p, ok := point(args)
	if !ok {
		return viewResult()
	}
	eng.Drag(p)
	return viewResult()
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	p, ok := point(args)
	if !ok {
		return viewResult()
	}
	eng.Release(p)
	return viewResult()
}

// --- Query Handlers ---

func view(this js.Value, args []js.Value) interface{} {
	return viewResult()
}

func hitTest(this js.Value, args []js.Value) interface{} {
	p, ok := point(args)
	if !ok {
		return js.ValueOf("")
	}
	data, err := json.Marshal(eng.HitTest(p))
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

func getObjects(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(eng.Objects())
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}
