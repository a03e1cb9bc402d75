package core

// Subscriber is a watcher of one room as seen by the core layer.
type Subscriber struct {
	ID     string
	Room   string
	Events chan *Event
}

// NewSubscriber constructs a subscriber with an initialized event channel.
func NewSubscriber(id, room string) *Subscriber {
	return &Subscriber{
		ID:     id,
		Room:   room,
		Events: make(chan *Event, 8),
	}
}
