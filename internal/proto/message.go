package proto

import "time"

const (
	ProtocolVersion = 1

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventMessageUpdated = "message_updated"
)

// Message is the JSON form of a room's latest message.
type Message struct {
	RoomID    string    `json:"room_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse wraps an optional message. Message is null when the room has none.
type MessageResponse struct {
	Message *Message `json:"message"`
}

// UpsertRequest replaces the message of a room.
type UpsertRequest struct {
	Text string `json:"text"`
}

// RoomResponse reports whether a room id is already in use.
type RoomResponse struct {
	RoomID string `json:"room_id"`
	Exists bool   `json:"exists"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Protocol int    `json:"protocol"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Outbound is the envelope for watch messages sent to the client.
type Outbound struct {
	Type  string   `json:"type"`
	Event string   `json:"event,omitempty"`
	Data  *Message `json:"data,omitempty"`
	Error *Error   `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
