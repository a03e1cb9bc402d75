package relay

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/roomid"
	"github.com/vovakirdan/latestview/internal/store"
)

// Writer replaces the latest message of the stored room.
type Writer struct {
	ids      roomid.Store
	messages store.MessageStore
	log      *zerolog.Logger

	mu     sync.Mutex
	status Status
	draft  string
}

// NewWriter creates a writer in the idle state.
func NewWriter(ids roomid.Store, messages store.MessageStore, logger *zerolog.Logger) *Writer {
	return &Writer{
		ids:      ids,
		messages: messages,
		log:      logger,
		status:   StatusIdle,
	}
}

// Open returns the room the writer will write to, or a redirect to room setup.
func (w *Writer) Open() (string, error) {
	id, err := w.ids.Load()
	if err != nil {
		return "", fmt.Errorf("load room id: %w", err)
	}
	if id == "" {
		return "", noRoom()
	}
	return id, nil
}

// Status returns the current save status.
func (w *Writer) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Draft returns the text kept after a failed save, or "" after a successful one.
func (w *Writer) Draft() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Save upserts text as the room's message.
// Whitespace-only text is ignored: no remote call, no status change, nil error.
// Remote failures set StatusError and are returned; nothing is retried.
func (w *Writer) Save(ctx context.Context, text string) error {
	message := strings.TrimSpace(text)
	if message == "" {
		return nil
	}

	id, err := w.Open()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.status = StatusSaving
	w.draft = text
	w.mu.Unlock()

	_, err = w.messages.UpsertMessage(ctx, id, message)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.status = StatusError
		w.log.Error().Err(err).Str("room_id", id).Msg("failed to save message")
		return fmt.Errorf("save message: %w", err)
	}

	w.status = StatusDone
	w.draft = ""
	w.log.Debug().Str("room_id", id).Msg("message saved")
	return nil
}
