package editor

import "github.com/inamate/canvas-editor/internal/document"

// Tool is the palette tool currently armed.
type Tool string

const (
	// ToolNone means no tool is armed: background drags do nothing.
	ToolNone Tool = ""
	// ToolSelector turns background drags into marquee selection and object
	// drags into moves.
	ToolSelector Tool = "selector"
)

// ToolFor returns the content tool that creates objects of type t.
func ToolFor(t document.WidgetType) Tool {
	return Tool(t)
}

// Armed reports whether t creates new objects.
func (t Tool) Armed() bool {
	return t != ToolNone && t != ToolSelector
}

// Settings tunes the interaction math. The zero value is not useful; start from
// DefaultSettings.
type Settings struct {
	// Objects added smaller than this on both axes are discarded.
	MinObjectSize float64
	// Offset of a duplicated object from its source on both axes.
	DuplicateOffset float64
	// Side of a square resize handle, used for hit testing.
	VertexSize float64
	// Distance from the middle-right handle to the rotation handle.
	RotateHandleLength float64
	// Pointer travel after which a press is a drag rather than a click.
	DragThreshold float64
	// Tool armed when a session starts.
	InitialTool Tool
	// Content tools offered by the palette.
	Tools []Tool
}

// DefaultSettings returns the stock editor tuning.
func DefaultSettings() Settings {
	return Settings{
		MinObjectSize:      3,
		DuplicateOffset:    document.DuplicateOffset,
		VertexSize:         10,
		RotateHandleLength: 100,
		DragThreshold:      4,
		InitialTool:        ToolSelector,
		Tools: []Tool{
			ToolFor(document.WidgetImage),
			ToolFor(document.WidgetText),
		},
	}
}
