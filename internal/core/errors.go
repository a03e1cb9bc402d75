package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeRoomRequired   = "room_required"
	ErrCodeRoomIDTooLong  = "room_id_too_long"
	ErrCodeTextRequired   = "text_required"
	ErrCodeTextTooLarge   = "text_too_large"
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeInternal       = "internal_error"
	ErrCodeWatchCancelled = "watch_cancelled"
)

var (
	ErrRoomRequired  = errors.New("room id is required")
	ErrRoomIDTooLong = errors.New("room id is too long")
	ErrTextRequired  = errors.New("text is required")
	ErrTextTooLarge  = errors.New("text is too large")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// ErrorCode maps a validation error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomRequired):
		return ErrCodeRoomRequired
	case errors.Is(err, ErrRoomIDTooLong):
		return ErrCodeRoomIDTooLong
	case errors.Is(err, ErrTextRequired):
		return ErrCodeTextRequired
	case errors.Is(err, ErrTextTooLarge):
		return ErrCodeTextTooLarge
	default:
		return ErrCodeInternal
	}
}

// ErrorEvent builds an error event addressed to a room's subscriber.
func ErrorEvent(room, code, msg string) *Event {
	return &Event{
		Kind:  EventError,
		Room:  room,
		Error: coreError(code, msg),
	}
}
