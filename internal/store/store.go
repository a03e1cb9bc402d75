package store

import (
	"context"
	"time"
)

// Message is the single latest message kept for a room.
// Writes replace the row for the room; no history is retained.
type Message struct {
	RoomID    string
	Text      string
	CreatedAt time.Time
}

// MessageStore handles message persistence.
type MessageStore interface {
	// UpsertMessage inserts the message for roomID or replaces its text and timestamp.
	UpsertMessage(ctx context.Context, roomID, text string) (*Message, error)

	// GetMessage retrieves the message for roomID.
	// Returns nil without error when the room has no message.
	GetMessage(ctx context.Context, roomID string) (*Message, error)

	// LatestMessage returns the most recently written message.
	// An empty roomID searches every room. Returns nil without error when nothing matches.
	LatestMessage(ctx context.Context, roomID string) (*Message, error)

	// RoomExists reports whether a message row exists for roomID.
	RoomExists(ctx context.Context, roomID string) (bool, error)
}

// Store aggregates storage interfaces with lifecycle management.
type Store interface {
	MessageStore

	// Migrate creates the schema if it does not exist yet.
	Migrate(ctx context.Context) error

	// Close closes the underlying database connection.
	Close() error
}
