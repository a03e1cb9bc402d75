package core

// Room groups subscribers watching the same room id.
type Room struct {
	ID          string
	subscribers map[*Subscriber]struct{}
}

// NewRoom constructs a room with no subscribers.
func NewRoom(id string) *Room {
	return &Room{
		ID:          id,
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// Add inserts a subscriber into the room. Returns true if newly added.
func (r *Room) Add(s *Subscriber) bool {
	if _, exists := r.subscribers[s]; exists {
		return false
	}
	r.subscribers[s] = struct{}{}
	return true
}

// Remove deletes a subscriber from the room. Returns true if removed.
func (r *Room) Remove(s *Subscriber) bool {
	if _, exists := r.subscribers[s]; !exists {
		return false
	}
	delete(r.subscribers, s)
	return true
}

// Broadcast sends an event to all subscribers in the room.
func (r *Room) Broadcast(event *Event) {
	for s := range r.subscribers {
		select {
		case s.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// Len returns the number of subscribers.
func (r *Room) Len() int {
	return len(r.subscribers)
}

// Empty returns true if no subscribers are in the room.
func (r *Room) Empty() bool {
	return len(r.subscribers) == 0
}
