package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/vovakirdan/latestview/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         BIGSERIAL PRIMARY KEY,
	room_id    TEXT NOT NULL UNIQUE,
	text       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at DESC);
`

// PostgresStore implements store.Store for PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// New connects to PostgreSQL using a lib/pq connection string.
func New(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Migrate creates the messages table if needed.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// UpsertMessage inserts or replaces the message for a room.
// The timestamp is assigned by the database.
func (s *PostgresStore) UpsertMessage(ctx context.Context, roomID, text string) (*store.Message, error) {
	query := `
		INSERT INTO messages (room_id, text, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (room_id) DO UPDATE SET
			text = EXCLUDED.text,
			created_at = EXCLUDED.created_at
		RETURNING room_id, text, created_at
	`
	msg, err := s.scanOne(ctx, query, roomID, text)
	if err != nil {
		return nil, fmt.Errorf("upsert message: %w", err)
	}
	if msg == nil {
		return nil, fmt.Errorf("upsert message: no row returned for room %q", roomID)
	}
	return msg, nil
}

// GetMessage retrieves the message for a room, or nil if there is none.
func (s *PostgresStore) GetMessage(ctx context.Context, roomID string) (*store.Message, error) {
	query := `
		SELECT room_id, text, created_at
		FROM messages
		WHERE room_id = $1
	`
	return s.scanOne(ctx, query, roomID)
}

// LatestMessage returns the newest message, optionally restricted to one room.
func (s *PostgresStore) LatestMessage(ctx context.Context, roomID string) (*store.Message, error) {
	query := `
		SELECT room_id, text, created_at
		FROM messages
		WHERE ($1 = '' OR room_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return s.scanOne(ctx, query, roomID)
}

// RoomExists reports whether the room has a stored message.
func (s *PostgresStore) RoomExists(ctx context.Context, roomID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM messages WHERE room_id = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, roomID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query room exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) scanOne(ctx context.Context, query string, args ...any) (*store.Message, error) {
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
