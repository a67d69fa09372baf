package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/inamate/canvas-editor/internal/editor"
)

var ErrInvalidSettings = errors.New("invalid editor settings")

// settingsFile is the TOML layout of the editor tuning file. Keys left out keep
// their defaults.
type settingsFile struct {
	MinObjectSize      float64  `toml:"min_object_size"`
	DuplicateOffset    float64  `toml:"duplicate_offset"`
	VertexSize         float64  `toml:"vertex_size"`
	RotateHandleLength float64  `toml:"rotate_handle_length"`
	DragThreshold      float64  `toml:"drag_threshold"`
	InitialTool        string   `toml:"initial_tool"`
	Tools              []string `toml:"tools"`
}

// LoadSettings reads editor tuning from the TOML file at path. An empty path
// yields the defaults.
func LoadSettings(path string) (editor.Settings, error) {
	if path == "" {
		return editor.DefaultSettings(), nil
	}

	f := newSettingsFile()
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return editor.Settings{}, fmt.Errorf("read editor settings %s: %w", path, err)
	}
	warnUndecoded(md)
	return f.settings()
}

// ParseSettings decodes editor tuning from TOML text.
func ParseSettings(data string) (editor.Settings, error) {
	f := newSettingsFile()
	md, err := toml.Decode(data, &f)
	if err != nil {
		return editor.Settings{}, fmt.Errorf("parse editor settings: %w", err)
	}
	warnUndecoded(md)
	return f.settings()
}

func newSettingsFile() settingsFile {
	d := editor.DefaultSettings()
	tools := make([]string, len(d.Tools))
	for i, t := range d.Tools {
		tools[i] = string(t)
	}
	return settingsFile{
		MinObjectSize:      d.MinObjectSize,
		DuplicateOffset:    d.DuplicateOffset,
		VertexSize:         d.VertexSize,
		RotateHandleLength: d.RotateHandleLength,
		DragThreshold:      d.DragThreshold,
		InitialTool:        string(d.InitialTool),
		Tools:              tools,
	}
}

func (f settingsFile) settings() (editor.Settings, error) {
	switch {
	case f.MinObjectSize < 0:
		return editor.Settings{}, fmt.Errorf("%w: min_object_size %v is negative", ErrInvalidSettings, f.MinObjectSize)
	case f.VertexSize <= 0:
		return editor.Settings{}, fmt.Errorf("%w: vertex_size must be positive", ErrInvalidSettings)
	case f.DragThreshold < 0:
		return editor.Settings{}, fmt.Errorf("%w: drag_threshold %v is negative", ErrInvalidSettings, f.DragThreshold)
	}

	tools := make([]editor.Tool, 0, len(f.Tools))
	for _, t := range f.Tools {
		tool := editor.Tool(t)
		if !tool.Armed() {
			return editor.Settings{}, fmt.Errorf("%w: %q is not a content tool", ErrInvalidSettings, t)
		}
		tools = append(tools, tool)
	}

	initial := editor.Tool(f.InitialTool)
	if initial != editor.ToolSelector && !slices.Contains(tools, initial) {
		return editor.Settings{}, fmt.Errorf("%w: initial_tool %q is neither selector nor a configured tool", ErrInvalidSettings, f.InitialTool)
	}

	return editor.Settings{
		MinObjectSize:      f.MinObjectSize,
		DuplicateOffset:    f.DuplicateOffset,
		VertexSize:         f.VertexSize,
		RotateHandleLength: f.RotateHandleLength,
		DragThreshold:      f.DragThreshold,
		InitialTool:        initial,
		Tools:              tools,
	}, nil
}

func warnUndecoded(md toml.MetaData) {
	for _, key := range md.Undecoded() {
		slog.Warn("unknown editor setting", "key", key.String())
	}
}
