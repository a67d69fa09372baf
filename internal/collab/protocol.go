package collab

import (
	"encoding/json"

	"github.com/inamate/canvas-editor/internal/editor"
	"github.com/inamate/canvas-editor/internal/geom"
)

type Message struct {
	Type          string          `json:"type"`
	SessionID     string          `json:"sessionId,omitempty"`
	ClientID      string          `json:"clientId,omitempty"`
	ParticipantID string          `json:"participantId,omitempty"`
	Seq           int64           `json:"seq,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

const (
	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Editing: clients submit editor.event, the room answers every accepted
	// event with an editor.view broadcast.
	TypeEditorEvent = "editor.event"
	TypeEditorView  = "editor.view"
	TypeEditorSync  = "editor.sync"
)

type PresencePayload struct {
	Cursor      *geom.Point `json:"cursor,omitempty"`
	Selection   []int       `json:"selection,omitempty"`
	DisplayName string      `json:"displayName,omitempty"`
	Holding     bool        `json:"holding,omitempty"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ParticipantID string `json:"participantId"`
}

type WelcomePayload struct {
	ClientID      string `json:"clientId"`
	ParticipantID string `json:"participantId"`
	SessionID     string `json:"sessionId"`
}

// ViewPayload carries the room's render model after an event. By is the
// participant whose event produced it.
type ViewPayload struct {
	View editor.View `json:"view"`
	By   string      `json:"by,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodePointerBusy  = "pointer_busy"
	ErrCodeInvalidEvent = "invalid_event"
	ErrCodeUnknownType  = "unknown_type"
)

func newMessage(msgType string, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Payload: data}, nil
}
