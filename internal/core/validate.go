package core

import (
	"fmt"
	"strings"
)

// Limits bounds what a write may contain. Zero values disable the check.
type Limits struct {
	MaxTextBytes    int
	MaxRoomIDLength int
}

// NormalizeRoomID trims roomID and checks it against limits.
func NormalizeRoomID(roomID string, limits Limits) (string, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return "", ErrRoomRequired
	}
	if limits.MaxRoomIDLength > 0 && len(roomID) > limits.MaxRoomIDLength {
		return "", fmt.Errorf("%w: %d > %d", ErrRoomIDTooLong, len(roomID), limits.MaxRoomIDLength)
	}
	return roomID, nil
}

// NormalizeText trims text and checks it against limits.
// Whitespace-only text is rejected as empty.
func NormalizeText(text string, limits Limits) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrTextRequired
	}
	if limits.MaxTextBytes > 0 && len(text) > limits.MaxTextBytes {
		return "", fmt.Errorf("%w: %d > %d bytes", ErrTextTooLarge, len(text), limits.MaxTextBytes)
	}
	return text, nil
}
