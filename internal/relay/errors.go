package relay

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRoom means the flow needs a room id and none is stored.
	ErrNoRoom = errors.New("no room id is set")
	// ErrEmptyRoomID rejects a blank room id.
	ErrEmptyRoomID = errors.New("room id is empty")
	// ErrRoomIDTooShort rejects ids below the configured minimum length.
	ErrRoomIDTooShort = errors.New("room id is too short")
	// ErrRoomIDTaken rejects an id that already has a message on the server.
	ErrRoomIDTaken = errors.New("room id is already in use")
)

// RedirectError asks the caller to navigate instead of failing.
type RedirectError struct {
	To  Destination
	Err error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%v: go to %s", e.Err, e.To)
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}

// RedirectTarget returns the destination carried by err, if any.
func RedirectTarget(err error) (Destination, bool) {
	var redirect *RedirectError
	if errors.As(err, &redirect) {
		return redirect.To, true
	}
	return "", false
}

func noRoom() error {
	return &RedirectError{To: DestinationRoomSetup, Err: ErrNoRoom}
}
