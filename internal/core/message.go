package core

import "time"

// Message is the domain model for the latest message of a room.
type Message struct {
	Room      string
	Text      string
	CreatedAt time.Time
}
