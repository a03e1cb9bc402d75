package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vovakirdan/latestview/internal/store"
)

var errRemote = errors.New("remote unavailable")

// fakeStore is an in-memory store.MessageStore that counts calls.
type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]*store.Message
	err     error
	upserts int
	gets    int
	existsN int
	latestN int
	getHook func(ctx context.Context, call int) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*store.Message)}
}

func (f *fakeStore) put(roomID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[roomID] = &store.Message{RoomID: roomID, Text: text, CreatedAt: time.Now().UTC()}
}

func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeStore) calls() (upserts, gets, exists int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts, f.gets, f.existsN
}

func (f *fakeStore) UpsertMessage(_ context.Context, roomID, text string) (*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.err != nil {
		return nil, f.err
	}
	msg := &store.Message{RoomID: roomID, Text: text, CreatedAt: time.Now().UTC()}
	f.rows[roomID] = msg
	return msg, nil
}

func (f *fakeStore) GetMessage(ctx context.Context, roomID string) (*store.Message, error) {
	f.mu.Lock()
	f.gets++
	call := f.gets
	hook := f.getHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, call); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	msg, ok := f.rows[roomID]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (f *fakeStore) LatestMessage(_ context.Context, roomID string) (*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestN++
	if f.err != nil {
		return nil, f.err
	}
	var latest *store.Message
	for id, msg := range f.rows {
		if roomID != "" && id != roomID {
			continue
		}
		if latest == nil || msg.CreatedAt.After(latest.CreatedAt) {
			latest = msg
		}
	}
	return latest, nil
}

func (f *fakeStore) RoomExists(_ context.Context, roomID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsN++
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.rows[roomID]
	return ok, nil
}

var _ store.MessageStore = (*fakeStore)(nil)
