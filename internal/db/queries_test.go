package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/inamate/canvas-editor/internal/typeid"
)

// Runs against a real database when TEST_DATABASE_URL is set.
func TestQueries_Postgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()

	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	q := New(pool)
	sessionID := typeid.NewSessionID()

	sess, err := q.CreateSession(ctx, CreateSessionParams{ID: sessionID, Name: "board"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID != sessionID || sess.Name != "board" || !sess.CreatedAt.Valid {
		t.Errorf("session = %+v", sess)
	}

	if _, err := q.GetLatestSnapshot(ctx, sessionID); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("latest snapshot of new session: err = %v, want ErrNoRows", err)
	}

	for v := int32(1); v <= 2; v++ {
		if _, err := q.CreateSnapshot(ctx, CreateSnapshotParams{
			ID:        typeid.NewSnapshotID(),
			SessionID: sessionID,
			Version:   v,
			Document:  []byte(`{"objects":[]}`),
		}); err != nil {
			t.Fatalf("CreateSnapshot v%d: %v", v, err)
		}
	}

	latest, err := q.GetLatestSnapshot(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetLatestSnapshot: %v", err)
	}
	if latest.Version != 2 {
		t.Errorf("latest version = %d, want 2", latest.Version)
	}

	if _, err := q.GetSession(ctx, typeid.NewSessionID()); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("unknown session: err = %v, want ErrNoRows", err)
	}
}
