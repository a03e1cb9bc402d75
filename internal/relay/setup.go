package relay

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/roomid"
	"github.com/vovakirdan/latestview/internal/store"
)

// DefaultMinRoomIDLength is the shortest room id RoomSetup accepts by default.
const DefaultMinRoomIDLength = 16

// SetupState is a snapshot of the room setup screen.
type SetupState struct {
	Input   string
	Status  Status
	Saved   bool
	Warning string
}

// RoomSetup lets the user choose, generate or clear the stored room id.
type RoomSetup struct {
	ids       roomid.Store
	rooms     store.MessageStore
	minLength int
	log       *zerolog.Logger

	mu      sync.Mutex
	input   string
	status  Status
	saved   bool
	warning string
}

// NewRoomSetup prefills the input with the stored room id.
// rooms may be nil to skip the existence check.
func NewRoomSetup(ids roomid.Store, rooms store.MessageStore, minLength int, logger *zerolog.Logger) (*RoomSetup, error) {
	if minLength <= 0 {
		minLength = DefaultMinRoomIDLength
	}
	current, err := ids.Load()
	if err != nil {
		return nil, fmt.Errorf("load room id: %w", err)
	}
	return &RoomSetup{
		ids:       ids,
		rooms:     rooms,
		minLength: minLength,
		log:       logger,
		input:     current,
		status:    StatusIdle,
	}, nil
}

// MinLength returns the shortest accepted room id.
func (s *RoomSetup) MinLength() int { return s.minLength }

// State returns the current screen state.
func (s *RoomSetup) State() SetupState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SetupState{Input: s.input, Status: s.status, Saved: s.saved, Warning: s.warning}
}

// Status returns the current check status.
func (s *RoomSetup) Status() Status { return s.State().Status }

// Saved reports whether the last Save stored the input.
func (s *RoomSetup) Saved() bool { return s.State().Saved }

// Warning returns the message explaining the last rejection.
func (s *RoomSetup) Warning() string { return s.State().Warning }

// SetInput replaces the input and clears the saved flag and warning.
func (s *RoomSetup) SetInput(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = v
	s.saved = false
	s.warning = ""
}

// Generate fills the input with a fresh random room id. It is not stored until Save.
func (s *RoomSetup) Generate() (string, error) {
	id, err := roomid.Generate()
	if err != nil {
		return "", err
	}
	s.SetInput(id)
	return id, nil
}

// Save validates candidate and stores it as the room id.
// Nothing is written when validation or the existence check rejects it.
func (s *RoomSetup) Save(ctx context.Context, candidate string) error {
	value := strings.TrimSpace(candidate)

	s.mu.Lock()
	s.input = candidate
	s.saved = false
	s.warning = ""
	s.mu.Unlock()

	if value == "" {
		return s.reject(StatusIdle, ErrEmptyRoomID, "enter a room id")
	}
	if utf8.RuneCountInString(value) < s.minLength {
		return s.reject(StatusIdle,
			fmt.Errorf("%w: need at least %d characters", ErrRoomIDTooShort, s.minLength),
			fmt.Sprintf("room id must be at least %d characters", s.minLength))
	}

	s.setStatus(StatusChecking)

	current, err := s.ids.Load()
	if err != nil {
		return s.reject(StatusError, fmt.Errorf("load room id: %w", err), "could not read the stored room id")
	}

	if value != current && s.rooms != nil {
		taken, err := s.rooms.RoomExists(ctx, value)
		if err != nil {
			s.log.Error().Err(err).Str("room_id", value).Msg("room existence check failed")
			return s.reject(StatusError, fmt.Errorf("check room id: %w", err), "could not check the room id")
		}
		if taken {
			return s.reject(StatusIdle, ErrRoomIDTaken, "this room id is already in use, pick another")
		}
	}

	if err := s.ids.Save(value); err != nil {
		return s.reject(StatusError, fmt.Errorf("save room id: %w", err), "could not store the room id")
	}

	s.mu.Lock()
	s.input = value
	s.status = StatusIdle
	s.saved = true
	s.mu.Unlock()

	s.log.Debug().Str("room_id", value).Msg("room id saved")
	return nil
}

// Reset clears the stored room id and the input.
func (s *RoomSetup) Reset() error {
	if err := s.ids.Clear(); err != nil {
		return fmt.Errorf("clear room id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = ""
	s.status = StatusIdle
	s.saved = false
	s.warning = ""
	return nil
}

func (s *RoomSetup) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *RoomSetup) reject(status Status, err error, warning string) error {
	s.mu.Lock()
	s.status = status
	s.warning = warning
	s.mu.Unlock()
	return err
}
