package core

import "context"

// Hub fans out message updates to subscribers of each room.
// All room state is owned by the goroutine running Run.
type Hub struct {
	register   chan *Subscriber
	unregister chan *Subscriber
	publish    chan *Event
	stats      chan chan int
	done       chan struct{}

	rooms map[string]*Room
}

// NewHub creates a new hub instance. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		publish:    make(chan *Event, 64),
		stats:      make(chan chan int),
		done:       make(chan struct{}),
		rooms:      make(map[string]*Room),
	}
}

// Run processes subscriptions and publications until ctx is cancelled.
// Remaining subscribers have their event channels closed on exit.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for _, room := range h.rooms {
			for s := range room.subscribers {
				close(s.Events)
			}
		}
		h.rooms = make(map[string]*Room)
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-h.register:
			room, ok := h.rooms[s.Room]
			if !ok {
				room = NewRoom(s.Room)
				h.rooms[s.Room] = room
			}
			room.Add(s)
		case s := <-h.unregister:
			room, ok := h.rooms[s.Room]
			if !ok || !room.Remove(s) {
				continue
			}
			close(s.Events)
			if room.Empty() {
				delete(h.rooms, s.Room)
			}
		case ev := <-h.publish:
			if room, ok := h.rooms[ev.Room]; ok {
				room.Broadcast(ev)
			}
		case reply := <-h.stats:
			total := 0
			for _, room := range h.rooms {
				total += room.Len()
			}
			reply <- total
		}
	}
}

// Subscribe adds s to its room. Returns false if the hub has stopped.
func (h *Hub) Subscribe(s *Subscriber) bool {
	select {
	case h.register <- s:
		return true
	case <-h.done:
		return false
	}
}

// Unsubscribe removes s from its room and closes its event channel.
// Calling it for an unknown or already removed subscriber is a no-op.
func (h *Hub) Unsubscribe(s *Subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// PublishMessage notifies the room's subscribers that msg replaced the previous message.
func (h *Hub) PublishMessage(msg Message) {
	ev := &Event{
		Kind:    EventMessageUpdated,
		Room:    msg.Room,
		Message: msg,
	}
	select {
	case h.publish <- ev:
	case <-h.done:
	}
}

// SubscriberCount returns the number of active subscribers across all rooms.
func (h *Hub) SubscriberCount() int {
	reply := make(chan int, 1)
	select {
	case h.stats <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}
