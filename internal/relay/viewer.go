package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/roomid"
	"github.com/vovakirdan/latestview/internal/store"
)

// PollInterval is the default period between viewer refreshes.
const PollInterval = 20 * time.Second

const (
	TextLoading   = "loading..."
	TextNoMessage = "no message yet"
	TextError     = "could not load the latest message"
)

// ViewState is a consistent snapshot of the viewer.
type ViewState struct {
	RoomID  string
	Status  Status
	Message *store.Message
}

// Text returns what the viewer displays for this state.
func (s ViewState) Text() string {
	switch s.Status {
	case StatusError:
		return TextError
	case StatusOK:
		if s.Message == nil || s.Message.Text == "" {
			return TextNoMessage
		}
		return s.Message.Text
	default:
		return TextLoading
	}
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithInterval overrides PollInterval.
func WithInterval(d time.Duration) ViewerOption {
	return func(v *Viewer) {
		if d > 0 {
			v.interval = d
		}
	}
}

// WithOnChange registers a callback run after every applied refresh.
// It runs with the viewer locked and must not call back into the Viewer.
func WithOnChange(fn func(ViewState)) ViewerOption {
	return func(v *Viewer) { v.onChange = fn }
}

// WithAllRooms makes the viewer show the newest message across every room.
func WithAllRooms() ViewerOption {
	return func(v *Viewer) { v.allRooms = true }
}

// Viewer shows the latest message of the stored room and keeps it fresh.
type Viewer struct {
	ids      roomid.Store
	messages store.MessageStore
	log      *zerolog.Logger
	interval time.Duration
	allRooms bool
	onChange func(ViewState)

	mu      sync.Mutex
	opened  bool
	roomID  string
	status  Status
	message *store.Message
	issued  uint64
	applied uint64
}

// NewViewer creates a viewer in the loading state.
func NewViewer(ids roomid.Store, messages store.MessageStore, logger *zerolog.Logger, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		ids:      ids,
		messages: messages,
		log:      logger,
		interval: PollInterval,
		status:   StatusLoading,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Open reads the room id once. Later refreshes keep using it.
func (v *Viewer) Open() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.opened {
		return v.roomID, nil
	}
	if v.allRooms {
		v.opened = true
		return "", nil
	}

	id, err := v.ids.Load()
	if err != nil {
		return "", fmt.Errorf("load room id: %w", err)
	}
	if id == "" {
		return "", noRoom()
	}
	v.roomID = id
	v.opened = true
	return id, nil
}

// Snapshot returns the current state.
func (v *Viewer) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

// Text returns the current display text.
func (v *Viewer) Text() string {
	return v.Snapshot().Text()
}

// Refresh fetches the latest message once.
// A response older than one already applied is dropped. Once the viewer has
// shown a message it stays ok while later fetches are in flight.
func (v *Viewer) Refresh(ctx context.Context) error {
	roomID, err := v.Open()
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.issued++
	seq := v.issued
	prev := v.status
	if v.status != StatusOK {
		v.status = StatusLoading
	}
	v.mu.Unlock()

	var msg *store.Message
	if v.allRooms {
		msg, err = v.messages.LatestMessage(ctx, "")
	} else {
		msg, err = v.messages.GetMessage(ctx, roomID)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if ctx.Err() != nil {
		// Only undo our own loading flip; a newer fetch may have moved on.
		if seq == v.issued && v.status == StatusLoading {
			v.status = prev
		}
		return ctx.Err()
	}
	if seq <= v.applied {
		v.log.Debug().Uint64("seq", seq).Uint64("applied", v.applied).Msg("dropping stale response")
		return nil
	}
	v.applied = seq

	if err != nil {
		v.status = StatusError
		v.log.Error().Err(err).Str("room_id", roomID).Msg("failed to load message")
		v.notifyLocked()
		return fmt.Errorf("load message: %w", err)
	}

	v.status = StatusOK
	v.message = msg
	v.notifyLocked()
	return nil
}

func (v *Viewer) stateLocked() ViewState {
	return ViewState{RoomID: v.roomID, Status: v.status, Message: v.message}
}

func (v *Viewer) notifyLocked() {
	if v.onChange != nil {
		v.onChange(v.stateLocked())
	}
}
