package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/latestview/internal/store"
)

// Schema is the SQLite schema for the message table.
// room_id is UNIQUE so an upsert always leaves exactly one row per room.
const Schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id    TEXT NOT NULL UNIQUE,
	text       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at DESC);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite store.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Set connection pool limits
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply schema without migrations.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Set connection pool limits before setup
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// ApplySchema is a setup function for NewWithSetup.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Migrate creates the messages table if needed.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertMessage inserts or replaces the message for a room.
func (s *SQLiteStore) UpsertMessage(ctx context.Context, roomID, text string) (*store.Message, error) {
	query := `
		INSERT INTO messages (room_id, text, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(room_id) DO UPDATE SET
			text = excluded.text,
			created_at = excluded.created_at
	`
	if _, err := s.db.ExecContext(ctx, query, roomID, text, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("upsert message: %w", err)
	}

	msg, err := s.GetMessage(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("upsert message: row for room %q missing after write", roomID)
	}
	return msg, nil
}

// GetMessage retrieves the message for a room, or nil if there is none.
func (s *SQLiteStore) GetMessage(ctx context.Context, roomID string) (*store.Message, error) {
	query := `
		SELECT room_id, text, created_at
		FROM messages
		WHERE room_id = ?
	`
	return s.scanOne(ctx, query, roomID)
}

// LatestMessage returns the newest message, optionally restricted to one room.
func (s *SQLiteStore) LatestMessage(ctx context.Context, roomID string) (*store.Message, error) {
	if roomID != "" {
		query := `
			SELECT room_id, text, created_at
			FROM messages
			WHERE room_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		`
		return s.scanOne(ctx, query, roomID)
	}

	query := `
		SELECT room_id, text, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return s.scanOne(ctx, query)
}

// RoomExists reports whether the room has a stored message.
func (s *SQLiteStore) RoomExists(ctx context.Context, roomID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM messages WHERE room_id = ?)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, roomID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query room exists: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStore) scanOne(ctx context.Context, query string, args ...any) (*store.Message, error) {
	var msg store.Message
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&msg.RoomID,
		&msg.Text,
		&msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query message: %w", err)
	}

	msg.CreatedAt = msg.CreatedAt.UTC()
	return &msg, nil
}
