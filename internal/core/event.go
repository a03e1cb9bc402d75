package core

// EventKind is a notification the core emits to subscribers.
type EventKind int

const (
	// EventMessageUpdated notifies subscribers that the room's message was replaced.
	EventMessageUpdated EventKind = iota
	// EventError notifies a subscriber about a domain error.
	EventError
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventMessageUpdated:
		return "message_updated"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is sent to subscribers to describe what happened in a room.
type Event struct {
	Kind    EventKind
	Room    string
	Message Message
	Error   *CoreError
}
