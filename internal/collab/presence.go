package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager tracks the cursor and selection each participant last
// reported, keyed by participant ID.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(participantID string, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	p.Holding = false
	if prev, ok := pm.presences[participantID]; ok {
		p.Holding = prev.Holding
	}
	pm.presences[participantID] = p
}

// SetHolder marks participantID as holding the pointer and clears the mark on
// everyone else. An empty ID clears it for all.
func (pm *PresenceManager) SetHolder(participantID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for id, p := range pm.presences {
		p.Holding = id == participantID
	}
}

func (pm *PresenceManager) Remove(participantID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, participantID)
}

// GetAll returns a snapshot safe to marshal without holding the lock.
func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for id, p := range pm.presences {
		cp := *p
		result[id] = &cp
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	msg, err := newMessage(TypePresenceState, PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return msg
}

// presenceUpdateMessage builds the presence.update broadcast for one participant.
func presenceUpdateMessage(participantID string, p *PresencePayload) *Message {
	payload, err := json.Marshal(p)
	if err != nil {
		slog.Error("marshal presence", "error", err)
		return nil
	}
	return &Message{
		Type:          TypePresenceUpdate,
		ParticipantID: participantID,
		Payload:       payload,
	}
}
