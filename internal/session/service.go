package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/jackc/pgx/v5"

	"github.com/inamate/canvas-editor/internal/auth"
	"github.com/inamate/canvas-editor/internal/db"
	"github.com/inamate/canvas-editor/internal/document"
	"github.com/inamate/canvas-editor/internal/typeid"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrForbidden = errors.New("forbidden")
)

const defaultDisplayName = "guest"

// Store is the persistence the service needs. *db.Queries satisfies it.
type Store interface {
	CreateSession(ctx context.Context, arg db.CreateSessionParams) (db.Session, error)
	GetSession(ctx context.Context, id string) (db.Session, error)
	CreateSnapshot(ctx context.Context, arg db.CreateSnapshotParams) (db.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, sessionID string) (db.Snapshot, error)
}

type Service struct {
	store Store
	auth  *auth.Service

	// snapshots caches the latest snapshot per session ID.
	snapshots *lru.Cache
}

func NewService(store Store, authService *auth.Service, cacheSize int) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create snapshot cache: %w", err)
	}
	return &Service{store: store, auth: authService, snapshots: cache}, nil
}

type Session struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Protected bool   `json:"protected"`
	CreatedAt string `json:"createdAt"`
}

// Snapshot is one saved version of a session document.
type Snapshot struct {
	Version  int             `json:"version"`
	Document json.RawMessage `json:"document"`
}

// Membership is what a participant receives on create or join.
type Membership struct {
	Session       *Session `json:"session"`
	ParticipantID string   `json:"participantId"`
	DisplayName   string   `json:"displayName"`
	Token         string   `json:"token"`
}

// Create opens a new session seeded with an empty document and joins the
// creator to it.
func (s *Service) Create(ctx context.Context, name, passcode, displayName string) (*Membership, error) {
	hash, err := s.auth.HashPasscode(passcode)
	if err != nil {
		return nil, fmt.Errorf("hash passcode: %w", err)
	}

	sessionID := typeid.NewSessionID()
	dbSess, err := s.store.CreateSession(ctx, db.CreateSessionParams{
		ID:           sessionID,
		Name:         name,
		PasscodeHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	emptyDoc := document.NewEmptyDocument(sessionID, name)
	emptyDoc.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	emptyDoc.UpdatedAt = emptyDoc.CreatedAt
	if err := s.writeSnapshot(ctx, sessionID, 1, emptyDoc); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return s.join(dbSess, displayName)
}

// Join admits a participant to an existing session.
func (s *Service) Join(ctx context.Context, sessionID, passcode, displayName string) (*Membership, error) {
	dbSess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.CheckPasscode(dbSess.PasscodeHash, passcode); err != nil {
		return nil, err
	}
	return s.join(dbSess, displayName)
}

func (s *Service) join(dbSess db.Session, displayName string) (*Membership, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = defaultDisplayName
	}

	participantID := uuid.NewString()
	token, err := s.auth.IssueToken(auth.Claims{
		SessionID:     dbSess.ID,
		ParticipantID: participantID,
		DisplayName:   displayName,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Membership{
		Session:       dbSessionToSession(dbSess),
		ParticipantID: participantID,
		DisplayName:   displayName,
		Token:         token,
	}, nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	dbSess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return dbSessionToSession(dbSess), nil
}

func (s *Service) getSession(ctx context.Context, sessionID string) (db.Session, error) {
	if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
		return db.Session{}, ErrNotFound
	}
	dbSess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Session{}, ErrNotFound
		}
		return db.Session{}, fmt.Errorf("get session: %w", err)
	}
	return dbSess, nil
}

// GetLatestSnapshot returns the newest saved document of a session.
func (s *Service) GetLatestSnapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	if cached, ok := s.snapshots.Get(sessionID); ok {
		return cached.(*Snapshot), nil
	}
	if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
		return nil, ErrNotFound
	}

	snap, err := s.store.GetLatestSnapshot(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	out := &Snapshot{Version: int(snap.Version), Document: snap.Document}
	s.snapshots.Add(sessionID, out)
	return out, nil
}

// LoadDocument decodes the latest snapshot of a session.
func (s *Service) LoadDocument(ctx context.Context, sessionID string) (*document.Document, error) {
	snap, err := s.GetLatestSnapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var doc document.Document
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot of %s: %w", sessionID, err)
	}
	doc.Version = snap.Version
	if doc.Objects == nil {
		doc.Objects = document.Objects{}
	}
	return &doc, nil
}

// SaveDocument stores doc as the next snapshot version of a session.
func (s *Service) SaveDocument(ctx context.Context, sessionID string, doc *document.Document) error {
	latest, err := s.GetLatestSnapshot(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.writeSnapshot(ctx, sessionID, latest.Version+1, doc)
}

func (s *Service) writeSnapshot(ctx context.Context, sessionID string, version int, doc *document.Document) error {
	saved := *doc
	saved.Version = version
	docJSON, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		SessionID: sessionID,
		Version:   int32(version),
		Document:  docJSON,
	})
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	s.snapshots.Add(sessionID, &Snapshot{Version: version, Document: docJSON})
	return nil
}

func dbSessionToSession(s db.Session) *Session {
	return &Session{
		ID:        s.ID,
		Name:      s.Name,
		Protected: s.PasscodeHash != "",
		CreatedAt: s.CreatedAt.Time.Format("2006-01-02T15:04:05Z"),
	}
}
