// Package relay holds the client screens as headless controllers.
package relay

import (
	"fmt"
	"regexp"

	"github.com/vovakirdan/latestview/internal/roomid"
)

// Destination is one of the client's screens, named by its route path.
type Destination string

const (
	DestinationLanding   Destination = "/"
	DestinationRoomSetup Destination = "/room"
	DestinationWrite     Destination = "/write"
	DestinationView      Destination = "/view"
)

// Capabilities describes what the current device is good at.
type Capabilities interface {
	// PrefersTouchInput reports whether the device is better suited to writing than viewing.
	PrefersTouchInput() bool
}

var mobileUserAgent = regexp.MustCompile(`(?i)Android|iPhone|iPad|iPod|Mobile`)

// UserAgentCapabilities classifies a device by a coarse user-agent match.
// It is a convenience default, not a security boundary.
type UserAgentCapabilities string

// PrefersTouchInput reports true for user agents that look like phones or tablets.
func (ua UserAgentCapabilities) PrefersTouchInput() bool {
	return mobileUserAgent.MatchString(string(ua))
}

// Route picks the landing destination: room setup when no room id is stored,
// otherwise write for touch devices and view for everything else.
func Route(ids roomid.Store, caps Capabilities) (Destination, error) {
	id, err := ids.Load()
	if err != nil {
		return "", fmt.Errorf("load room id: %w", err)
	}
	if id == "" {
		return DestinationRoomSetup, nil
	}
	if caps != nil && caps.PrefersTouchInput() {
		return DestinationWrite, nil
	}
	return DestinationView, nil
}
