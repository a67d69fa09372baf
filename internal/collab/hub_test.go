package collab

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/editor"
)

type savedDocs struct {
	mu   sync.Mutex
	docs map[string]*document.Document
}

func (s *savedDocs) save(sessionID string, doc *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[sessionID] = doc
	return nil
}

func (s *savedDocs) get(sessionID string) *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[sessionID]
}

func newTestHub() (*Hub, *savedDocs) {
	saved := &savedDocs{docs: make(map[string]*document.Document)}
	loader := func(sessionID string) (*document.Document, error) {
		return testDocument(), nil
	}
	return NewHub(editor.DefaultSettings(), loader, saved.save), saved
}

// drain returns every message queued for c.
func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var out []Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func types(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func eventMessage(t *testing.T, payload string) *Message {
	t.Helper()
	return &Message{Type: TypeEditorEvent, Payload: json.RawMessage(payload)}
}

func equalTypes(got []Message, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].Type != want[i] {
			return false
		}
	}
	return true
}

func TestHub_EditingSession(t *testing.T) {
	h, saved := newTestHub()
	alice := NewClient(h, nil, "alice", "Alice", "sess_test", "c1")
	bob := NewClient(h, nil, "bob", "Bob", "sess_test", "c2")

	h.addClient(alice)
	if msgs := drain(t, alice); !equalTypes(msgs, TypeWelcome, TypeEditorSync, TypePresenceState) {
		t.Fatalf("alice join messages = %v", types(msgs))
	}

	h.addClient(bob)
	bobJoin := drain(t, bob)
	if !equalTypes(bobJoin, TypeWelcome, TypeEditorSync, TypePresenceState) {
		t.Fatalf("bob join messages = %v", types(bobJoin))
	}
	var synced ViewPayload
	if err := json.Unmarshal(bobJoin[1].Payload, &synced); err != nil {
		t.Fatalf("sync payload: %v", err)
	}
	if len(synced.View.Objects) != 1 {
		t.Errorf("synced objects = %d, want 1", len(synced.View.Objects))
	}
	if msgs := drain(t, alice); !equalTypes(msgs, TypePresenceJoin) {
		t.Fatalf("alice saw %v, want presence.join", types(msgs))
	}

	h.handleMessage(alice, eventMessage(t, `{"type":"pointerDown","hit":{"role":"drawObject","objectIndex":0},"point":{"x":15,"y":15}}`))
	h.handleMessage(alice, eventMessage(t, `{"type":"pointerMove","point":{"x":35,"y":15}}`))

	for _, c := range []*Client{alice, bob} {
		msgs := drain(t, c)
		if !equalTypes(msgs, TypeEditorView, TypeEditorView) {
			t.Fatalf("%s got %v, want two views", c.ParticipantID, types(msgs))
		}
		if msgs[0].Seq != 1 || msgs[1].Seq != 2 {
			t.Errorf("%s seqs = %d,%d", c.ParticipantID, msgs[0].Seq, msgs[1].Seq)
		}
	}

	h.handleMessage(bob, eventMessage(t, `{"type":"pointerMove","point":{"x":0,"y":0}}`))
	msgs := drain(t, bob)
	if !equalTypes(msgs, TypeError) {
		t.Fatalf("bob got %v, want error", types(msgs))
	}
	var perr ErrorPayload
	if err := json.Unmarshal(msgs[0].Payload, &perr); err != nil || perr.Code != ErrCodePointerBusy {
		t.Errorf("error payload = %+v (%v)", perr, err)
	}
	if msgs := drain(t, alice); len(msgs) != 0 {
		t.Errorf("rejected event reached alice: %v", types(msgs))
	}

	// Alice drops mid-drag: the drag ends and bob is told.
	h.removeClient(alice)
	msgs = drain(t, bob)
	if !equalTypes(msgs, TypeEditorView, TypePresenceLeave) {
		t.Fatalf("bob got %v, want view and leave", types(msgs))
	}
	var released ViewPayload
	if err := json.Unmarshal(msgs[0].Payload, &released); err != nil {
		t.Fatalf("view payload: %v", err)
	}
	if released.View.Dragging || released.By != "alice" {
		t.Errorf("release view = dragging %v by %q", released.View.Dragging, released.By)
	}

	if saved.get("sess_test") != nil {
		t.Fatal("saved while a participant is still connected")
	}

	h.removeClient(bob)
	doc := saved.get("sess_test")
	if doc == nil {
		t.Fatal("dirty room not saved when the last participant left")
	}
	if doc.Objects[0].X != 30 {
		t.Errorf("saved x = %v, want 30", doc.Objects[0].X)
	}
	if h.room("sess_test") != nil {
		t.Error("empty room not closed")
	}
}

func TestHub_InvalidMessages(t *testing.T) {
	h, _ := newTestHub()
	c := NewClient(h, nil, "alice", "Alice", "sess_test", "c1")
	h.addClient(c)
	drain(t, c)

	h.handleMessage(c, eventMessage(t, `{"type":"warp"}`))
	h.handleMessage(c, &Message{Type: "doc.rewrite", Payload: json.RawMessage(`{}`)})

	msgs := drain(t, c)
	if !equalTypes(msgs, TypeError, TypeError) {
		t.Fatalf("got %v, want two errors", types(msgs))
	}
	codes := make([]string, len(msgs))
	for i, m := range msgs {
		var p ErrorPayload
		json.Unmarshal(m.Payload, &p)
		codes[i] = p.Code
	}
	if codes[0] != ErrCodeInvalidEvent || codes[1] != ErrCodeUnknownType {
		t.Errorf("codes = %v", codes)
	}
}

func TestHub_PresenceUpdate(t *testing.T) {
	h, _ := newTestHub()
	alice := NewClient(h, nil, "alice", "Alice", "sess_test", "c1")
	bob := NewClient(h, nil, "bob", "Bob", "sess_test", "c2")
	h.addClient(alice)
	h.addClient(bob)
	drain(t, alice)
	drain(t, bob)

	h.handleMessage(alice, &Message{Type: TypePresenceUpdate, Payload: json.RawMessage(`{"cursor":{"x":4,"y":5},"displayName":"Mallory","holding":true}`)})

	if msgs := drain(t, alice); len(msgs) != 0 {
		t.Errorf("sender got its own presence: %v", types(msgs))
	}
	msgs := drain(t, bob)
	if !equalTypes(msgs, TypePresenceUpdate) {
		t.Fatalf("bob got %v", types(msgs))
	}
	var p PresencePayload
	if err := json.Unmarshal(msgs[0].Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.DisplayName != "Alice" || p.Holding || p.Cursor == nil || p.Cursor.X != 4 {
		t.Errorf("presence = %+v", p)
	}
}

func TestHub_StopSavesDirtyRooms(t *testing.T) {
	h, saved := newTestHub()
	go h.Run()

	c := NewClient(h, nil, "alice", "Alice", "sess_test", "c1")
	h.Register(c)

	select {
	case <-c.send:
	case <-time.After(2 * time.Second):
		t.Fatal("no welcome message")
	}

	h.handleMessage(c, eventMessage(t, `{"type":"copyObject","index":0}`))
	h.Stop()

	doc := saved.get("sess_test")
	if doc == nil || len(doc.Objects) != 2 {
		t.Fatalf("saved = %+v, want the copy persisted", doc)
	}

	// Calls after Stop must not block.
	h.Unregister(c)
	h.Stop()
}

func TestClient_ResyncAfterDroppedView(t *testing.T) {
	h, _ := newTestHub()
	alice := NewClient(h, nil, "alice", "Alice", "sess_test", "c1")
	bob := NewClient(h, nil, "bob", "Bob", "sess_test", "c2")
	h.addClient(alice)
	h.addClient(bob)
	drain(t, bob)

	// Fill bob's queue so the next view is dropped.
	filler := &Message{Type: TypePresenceUpdate, Payload: json.RawMessage(`{}`)}
	for len(bob.send) < cap(bob.send) {
		bob.Send(filler)
	}
	h.handleMessage(alice, eventMessage(t, `{"type":"copyObject","index":0}`))

	if bob.pendingSync() != nil {
		t.Fatal("sync offered while the queue still has a backlog")
	}
	drain(t, bob)

	msg := bob.pendingSync()
	if msg == nil || msg.Type != TypeEditorSync {
		t.Fatalf("pending sync = %+v, want editor.sync", msg)
	}
	if msg.Seq != 1 {
		t.Errorf("seq = %d, want 1", msg.Seq)
	}
	var synced ViewPayload
	if err := json.Unmarshal(msg.Payload, &synced); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if len(synced.View.Objects) != 2 {
		t.Errorf("synced objects = %d, want the copy included", len(synced.View.Objects))
	}
	if bob.pendingSync() != nil {
		t.Error("sync offered twice")
	}
	if alice.pendingSync() != nil {
		t.Error("client that missed nothing was offered a sync")
	}
}

func TestClient_PingIntervalFollowsPointer(t *testing.T) {
	h, _ := newTestHub()
	alice := NewClient(h, nil, "alice", "Alice", "sess_test", "c1")
	bob := NewClient(h, nil, "bob", "Bob", "sess_test", "c2")
	h.addClient(alice)
	h.addClient(bob)

	if alice.pingInterval() != idlePing {
		t.Errorf("idle interval = %v, want %v", alice.pingInterval(), idlePing)
	}

	h.handleMessage(alice, eventMessage(t, `{"type":"pointerDown","hit":{"role":"drawObject","objectIndex":0},"point":{"x":15,"y":15}}`))
	if alice.pingInterval() != holdPing {
		t.Errorf("holder interval = %v, want %v", alice.pingInterval(), holdPing)
	}
	if bob.pingInterval() != idlePing {
		t.Errorf("non-holder interval = %v, want %v", bob.pingInterval(), idlePing)
	}

	h.handleMessage(alice, eventMessage(t, `{"type":"pointerUp","point":{"x":15,"y":15}}`))
	if alice.pingInterval() != idlePing {
		t.Errorf("interval after release = %v, want %v", alice.pingInterval(), idlePing)
	}
}
