package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/latestview/internal/roomid"
)

const testRoom = "room-aaaaaaaaaaaaaaaaaaaaaaaa"

func TestWriterWhitespaceIsNoop(t *testing.T) {
	fs := newFakeStore()
	w := NewWriter(roomid.NewMemoryStore(testRoom), fs, nopLogger())

	for _, text := range []string{"", "   ", "\n\t "} {
		if err := w.Save(context.Background(), text); err != nil {
			t.Fatalf("expected nil for %q, got %v", text, err)
		}
	}

	if upserts, _, _ := fs.calls(); upserts != 0 {
		t.Fatalf("expected no remote call, got %d", upserts)
	}
	if w.Status() != StatusIdle {
		t.Fatalf("expected idle, got %s", w.Status())
	}
}

func TestWriterSaveTrimsAndClearsDraft(t *testing.T) {
	fs := newFakeStore()
	w := NewWriter(roomid.NewMemoryStore(testRoom), fs, nopLogger())

	if err := w.Save(context.Background(), "  hello  "); err != nil {
		t.Fatalf("save: %v", err)
	}
	if w.Status() != StatusDone {
		t.Fatalf("expected done, got %s", w.Status())
	}
	if w.Draft() != "" {
		t.Fatalf("expected draft cleared, got %q", w.Draft())
	}

	msg, _ := fs.GetMessage(context.Background(), testRoom)
	if msg == nil || msg.Text != "hello" {
		t.Fatalf("expected trimmed text stored, got %+v", msg)
	}
}

func TestWriterRemoteError(t *testing.T) {
	fs := newFakeStore()
	fs.setErr(errRemote)
	w := NewWriter(roomid.NewMemoryStore(testRoom), fs, nopLogger())

	err := w.Save(context.Background(), "hello")
	if !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if w.Status() != StatusError {
		t.Fatalf("expected error status, got %s", w.Status())
	}
	if w.Draft() != "hello" {
		t.Fatalf("expected draft kept, got %q", w.Draft())
	}
	if upserts, _, _ := fs.calls(); upserts != 1 {
		t.Fatalf("expected exactly one attempt, got %d", upserts)
	}
}

func TestWriterWithoutRoomRedirects(t *testing.T) {
	fs := newFakeStore()
	w := NewWriter(roomid.NewMemoryStore(""), fs, nopLogger())

	err := w.Save(context.Background(), "hello")
	if to, ok := RedirectTarget(err); !ok || to != DestinationRoomSetup {
		t.Fatalf("expected redirect to room setup, got %v", err)
	}
	if !errors.Is(err, ErrNoRoom) {
		t.Fatalf("expected ErrNoRoom, got %v", err)
	}
	if upserts, _, _ := fs.calls(); upserts != 0 {
		t.Fatalf("expected no remote call, got %d", upserts)
	}

	if _, err := w.Open(); !errors.Is(err, ErrNoRoom) {
		t.Fatalf("expected Open to report ErrNoRoom, got %v", err)
	}
}

func TestWriterReplacesMessage(t *testing.T) {
	fs := newFakeStore()
	w := NewWriter(roomid.NewMemoryStore(testRoom), fs, nopLogger())
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		if err := w.Save(ctx, text); err != nil {
			t.Fatalf("save %q: %v", text, err)
		}
	}

	msg, _ := fs.GetMessage(ctx, testRoom)
	if msg == nil || msg.Text != "second" {
		t.Fatalf("expected second, got %+v", msg)
	}
}
