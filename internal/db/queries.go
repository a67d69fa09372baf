package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Session struct {
	ID           string
	Name         string
	PasscodeHash string
	CreatedAt    pgtype.Timestamptz
}

type Snapshot struct {
	ID        string
	SessionID string
	Version   int32
	Document  []byte
	CreatedAt pgtype.Timestamptz
}

const createSession = `
INSERT INTO sessions (id, name, passcode_hash)
VALUES ($1, $2, $3)
RETURNING id, name, passcode_hash, created_at`

type CreateSessionParams struct {
	ID           string
	Name         string
	PasscodeHash string
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRow(ctx, createSession, arg.ID, arg.Name, arg.PasscodeHash)
	var s Session
	err := row.Scan(&s.ID, &s.Name, &s.PasscodeHash, &s.CreatedAt)
	return s, err
}

const getSession = `
SELECT id, name, passcode_hash, created_at
FROM sessions
WHERE id = $1`

func (q *Queries) GetSession(ctx context.Context, id string) (Session, error) {
	row := q.db.QueryRow(ctx, getSession, id)
	var s Session
	err := row.Scan(&s.ID, &s.Name, &s.PasscodeHash, &s.CreatedAt)
	return s, err
}

const createSnapshot = `
INSERT INTO snapshots (id, session_id, version, document)
VALUES ($1, $2, $3, $4)
RETURNING id, session_id, version, document, created_at`

type CreateSnapshotParams struct {
	ID        string
	SessionID string
	Version   int32
	Document  []byte
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := q.db.QueryRow(ctx, createSnapshot, arg.ID, arg.SessionID, arg.Version, arg.Document)
	var s Snapshot
	err := row.Scan(&s.ID, &s.SessionID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

const getLatestSnapshot = `
SELECT id, session_id, version, document, created_at
FROM snapshots
WHERE session_id = $1
ORDER BY version DESC
LIMIT 1`

func (q *Queries) GetLatestSnapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	row := q.db.QueryRow(ctx, getLatestSnapshot, sessionID)
	var s Snapshot
	err := row.Scan(&s.ID, &s.SessionID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}
