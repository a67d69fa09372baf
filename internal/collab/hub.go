package collab

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/editor"
)

// DocumentLoader fetches the latest saved document of a session.
type DocumentLoader func(sessionID string) (*document.Document, error)

// DocumentSaver persists a session document.
type DocumentSaver func(sessionID string, doc *document.Document) error

type Room struct {
	sessionID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	state     *RoomState

	// mu orders editor events with the broadcasts they produce.
	mu sync.Mutex
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // sessionID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	loader   DocumentLoader
	saver    DocumentSaver
	settings editor.Settings
}

func NewHub(settings editor.Settings, loader DocumentLoader, saver DocumentSaver) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		loader:     loader,
		saver:      saver,
		settings:   settings,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			h.saveAll()
			close(h.done)
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop saves every dirty room and ends Run. It blocks until the saves finish.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) newRoom(sessionID string) *Room {
	start := time.Now()
	doc, err := h.loader(sessionID)
	if err != nil || doc == nil {
		slog.Warn("load document failed, starting empty", "session", sessionID, "error", err)
		doc = document.NewEmptyDocument(sessionID, "")
	}

	engine := editor.NewEngine(h.settings, slog.Default().With("session", sessionID))
	room := &Room{
		sessionID: sessionID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		state:     NewRoomState(doc, engine),
	}
	slog.Info("room opened", "session", sessionID, "objects", len(doc.Objects), "took", time.Since(start))
	return room
}

func (h *Hub) room(sessionID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[sessionID]
}

// syncMessage builds the full editor.sync for a room. Callers hold room.mu.
func (r *Room) syncMessage() *Message {
	view, seq := r.state.View()
	msg, err := newMessage(TypeEditorSync, ViewPayload{View: view})
	if err != nil {
		slog.Error("marshal sync", "error", err)
		return nil
	}
	msg.Seq = seq
	msg.SessionID = r.sessionID
	return msg
}

// syncMessage returns the current editor.sync of a session, or nil when the
// room is gone.
func (h *Hub) syncMessage(sessionID string) *Message {
	room := h.room(sessionID)
	if room == nil {
		return nil
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return room.syncMessage()
}

func (h *Hub) holdsPointer(c *Client) bool {
	room := h.room(c.SessionID)
	return room != nil && room.state.Holder() == c.ParticipantID
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		room = h.newRoom(client.SessionID)
		h.rooms[client.SessionID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	welcome, _ := newMessage(TypeWelcome, WelcomePayload{
		ClientID:      client.ClientID,
		ParticipantID: client.ParticipantID,
		SessionID:     client.SessionID,
	})
	client.Send(welcome)

	room.mu.Lock()
	client.Send(room.syncMessage())
	room.mu.Unlock()

	// Send current presence state to new client
	client.Send(room.presence.StateMessage())
	room.presence.Update(client.ParticipantID, &PresencePayload{DisplayName: client.DisplayName})

	joinMsg, _ := newMessage(TypePresenceJoin, PresenceJoinPayload{
		ParticipantID: client.ParticipantID,
		DisplayName:   client.DisplayName,
	})
	joinMsg.ParticipantID = client.ParticipantID
	h.broadcastToRoom(client.SessionID, joinMsg, client.ClientID)

	slog.Info("client joined", "participant", client.ParticipantID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)

	stillPresent := false
	for _, c := range room.clients {
		if c.ParticipantID == client.ParticipantID {
			stillPresent = true
			break
		}
	}
	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.SessionID)
	}
	h.mu.Unlock()

	if !stillPresent {
		room.presence.Remove(client.ParticipantID)

		// A participant that drops mid-drag must not keep the pointer.
		room.mu.Lock()
		if view, seq, released := room.state.Release(client.ParticipantID); released {
			room.presence.SetHolder("")
			h.broadcastView(room, view, seq, client.ParticipantID)
		}
		room.mu.Unlock()

		leaveMsg, _ := newMessage(TypePresenceLeave, PresenceLeavePayload{
			ParticipantID: client.ParticipantID,
		})
		leaveMsg.ParticipantID = client.ParticipantID
		h.broadcastToRoom(client.SessionID, leaveMsg, "")
	}

	if empty {
		h.saveRoom(room)
	}

	slog.Info("client left", "participant", client.ParticipantID, "session", client.SessionID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeEditorEvent:
		h.handleEditorEvent(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "participant", sender.ParticipantID)
		sender.sendError(ErrCodeUnknownType, errors.New("unknown message type: "+msg.Type))
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	room := h.room(sender.SessionID)
	if room == nil {
		return
	}

	room.presence.Update(sender.ParticipantID, &presence)
	h.broadcastToRoom(sender.SessionID, presenceUpdateMessage(sender.ParticipantID, &presence), sender.ClientID)
}

func (h *Hub) handleEditorEvent(sender *Client, msg *Message) {
	room := h.room(sender.SessionID)
	if room == nil {
		return
	}

	ev, err := editor.DecodeEvent(msg.Payload)
	if err != nil {
		slog.Warn("invalid editor event", "error", err, "participant", sender.ParticipantID)
		sender.sendError(ErrCodeInvalidEvent, err)
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	view, seq, accepted, err := room.state.Apply(sender.ParticipantID, ev)
	if errors.Is(err, ErrPointerBusy) {
		sender.sendError(ErrCodePointerBusy, err)
		return
	}
	if !accepted {
		return
	}

	room.presence.SetHolder(room.state.Holder())
	h.broadcastView(room, view, seq, sender.ParticipantID)
}

func (h *Hub) broadcastView(room *Room, view editor.View, seq int64, by string) {
	msg, err := newMessage(TypeEditorView, ViewPayload{View: view, By: by})
	if err != nil {
		slog.Error("marshal view", "error", err)
		return
	}
	msg.Seq = seq
	msg.SessionID = room.sessionID
	h.broadcastToRoom(room.sessionID, msg, "")
}

func (h *Hub) broadcastToRoom(sessionID string, msg *Message, excludeClientID string) {
	if msg == nil {
		return
	}

	h.mu.RLock()
	room, ok := h.rooms[sessionID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if !room.state.IsDirty() {
		return
	}
	if err := h.saver(room.sessionID, room.state.Document()); err != nil {
		slog.Error("save document", "session", room.sessionID, "error", err)
		return
	}
	room.state.MarkClean()
	slog.Info("document saved", "session", room.sessionID)
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(r)
	}
}
