package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256

	// idlePing keeps quiet connections alive. holdPing applies while the
	// client holds the room pointer, so a vanished holder is noticed and its
	// drag released within seconds instead of blocking everyone else.
	idlePing = 30 * time.Second
	holdPing = 3 * time.Second
)

// Client is one websocket connection to a session room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// resync is set when a view was dropped on a full buffer. The write pump
	// answers it with a fresh editor.sync once the backlog is written.
	resync atomic.Bool

	ParticipantID string
	DisplayName   string
	SessionID     string
	ClientID      string
}

func NewClient(hub *Hub, conn *websocket.Conn, participantID, displayName, sessionID, clientID string) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		ParticipantID: participantID,
		DisplayName:   displayName,
		SessionID:     sessionID,
		ClientID:      clientID,
	}
}

// ReadPump feeds inbound messages to the hub until the connection ends. The
// envelope's identity fields are always overwritten with the connection's own.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				slog.Debug("read error", "error", err, "participant", c.ParticipantID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "participant", c.ParticipantID)
			continue
		}
		msg.ParticipantID = c.ParticipantID
		msg.ClientID = c.ClientID
		msg.SessionID = c.SessionID
		msg.Seq = 0

		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the send queue and pings on an interval that tightens while
// the client holds the pointer.
func (c *Client) WritePump(ctx context.Context) {
	ping := time.NewTimer(c.pingInterval())
	defer func() {
		ping.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(ctx, message); err != nil {
				return
			}
			if msg := c.pendingSync(); msg != nil {
				data, err := json.Marshal(msg)
				if err != nil {
					slog.Error("marshal sync", "error", err)
					continue
				}
				if err := c.write(ctx, data); err != nil {
					return
				}
			}

		case <-ping.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				slog.Info("ping failed, dropping client", "participant", c.ParticipantID, "error", err)
				return
			}
			ping.Reset(c.pingInterval())

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	if err := c.conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		slog.Debug("write error", "error", err, "participant", c.ParticipantID)
		return err
	}
	return nil
}

func (c *Client) pingInterval() time.Duration {
	if c.hub.holdsPointer(c) {
		return holdPing
	}
	return idlePing
}

// pendingSync returns the editor.sync owed to a client that missed a view, once
// its queue is empty. It returns nil otherwise.
func (c *Client) pendingSync() *Message {
	if len(c.send) > 0 || !c.resync.Swap(false) {
		return nil
	}
	return c.hub.syncMessage(c.SessionID)
}

// Send queues msg for the write pump. Messages to a slow client are dropped
// rather than blocking the room; a dropped view schedules a resync.
func (c *Client) Send(msg *Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		if msg.Type == TypeEditorView || msg.Type == TypeEditorSync {
			c.resync.Store(true)
		}
		slog.Warn("client send buffer full, dropping message", "participant", c.ParticipantID, "type", msg.Type)
	}
}

func (c *Client) sendError(code string, err error) {
	msg, merr := newMessage(TypeError, ErrorPayload{Code: code, Message: err.Error()})
	if merr != nil {
		return
	}
	c.Send(msg)
}
