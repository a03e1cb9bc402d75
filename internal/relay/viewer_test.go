package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/latestview/internal/roomid"
)

func TestViewerEmptyRoomShowsPlaceholder(t *testing.T) {
	v := NewViewer(roomid.NewMemoryStore("r1"), newFakeStore(), nopLogger())

	if got := v.Snapshot().Status; got != StatusLoading {
		t.Fatalf("expected loading before first fetch, got %s", got)
	}
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	snap := v.Snapshot()
	if snap.Status != StatusOK {
		t.Fatalf("expected ok, got %s", snap.Status)
	}
	if snap.Message != nil {
		t.Fatalf("expected no message, got %+v", snap.Message)
	}
	if v.Text() != TextNoMessage {
		t.Fatalf("expected %q, got %q", TextNoMessage, v.Text())
	}
}

func TestViewerShowsLatestText(t *testing.T) {
	fs := newFakeStore()
	fs.put("r1", "hello")
	v := NewViewer(roomid.NewMemoryStore("r1"), fs, nopLogger())

	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if v.Text() != "hello" {
		t.Fatalf("expected hello, got %q", v.Text())
	}

	fs.put("r1", "bye")
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if v.Text() != "bye" {
		t.Fatalf("expected bye, got %q", v.Text())
	}
}

func TestViewerErrorThenRecover(t *testing.T) {
	fs := newFakeStore()
	fs.setErr(errRemote)
	v := NewViewer(roomid.NewMemoryStore("r1"), fs, nopLogger())

	if err := v.Refresh(context.Background()); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if v.Snapshot().Status != StatusError || v.Text() != TextError {
		t.Fatalf("unexpected state %+v", v.Snapshot())
	}

	fs.setErr(nil)
	fs.put("r1", "back")
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if v.Snapshot().Status != StatusOK || v.Text() != "back" {
		t.Fatalf("unexpected state %+v", v.Snapshot())
	}
}

func TestViewerStaysOKWhileRefreshing(t *testing.T) {
	fs := newFakeStore()
	fs.put("r1", "hello")
	v := NewViewer(roomid.NewMemoryStore("r1"), fs, nopLogger())

	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	var during Status
	fs.getHook = func(context.Context, int) error {
		during = v.Snapshot().Status
		return nil
	}
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if during != StatusOK {
		t.Fatalf("expected ok during refresh, got %s", during)
	}
}

func TestViewerDropsStaleResponse(t *testing.T) {
	fs := newFakeStore()
	fs.put("r1", "old")
	v := NewViewer(roomid.NewMemoryStore("r1"), fs, nopLogger())

	started := make(chan struct{})
	release := make(chan struct{})
	fs.getHook = func(_ context.Context, call int) error {
		if call == 1 {
			close(started)
			<-release
		}
		return nil
	}

	slow := make(chan error, 1)
	go func() { slow <- v.Refresh(context.Background()) }()
	<-started

	fs.put("r1", "fresh")
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	fs.put("r1", "stale")
	close(release)
	if err := <-slow; err != nil {
		t.Fatalf("slow refresh: %v", err)
	}

	if v.Text() != "fresh" {
		t.Fatalf("stale response overwrote newer one: %q", v.Text())
	}
}

func TestViewerWithoutRoomRedirects(t *testing.T) {
	fs := newFakeStore()
	v := NewViewer(roomid.NewMemoryStore(""), fs, nopLogger())

	if err := v.Refresh(context.Background()); !errors.Is(err, ErrNoRoom) {
		t.Fatalf("expected ErrNoRoom, got %v", err)
	}
	p, err := v.Start(context.Background())
	if p != nil {
		t.Fatalf("expected no poller")
	}
	if to, ok := RedirectTarget(err); !ok || to != DestinationRoomSetup {
		t.Fatalf("expected redirect to room setup, got %v", err)
	}
	if _, gets, _ := fs.calls(); gets != 0 {
		t.Fatalf("expected no remote call, got %d", gets)
	}
}

func TestViewerReadsRoomOnce(t *testing.T) {
	ids := roomid.NewMemoryStore("r1")
	fs := newFakeStore()
	fs.put("r1", "one")
	fs.put("r2", "two")
	v := NewViewer(ids, fs, nopLogger())

	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	_ = ids.Save("r2")
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if snap := v.Snapshot(); snap.RoomID != "r1" || v.Text() != "one" {
		t.Fatalf("expected viewer to stay on r1, got %+v", snap)
	}
}

func TestViewerAllRooms(t *testing.T) {
	fs := newFakeStore()
	fs.put("r1", "one")
	time.Sleep(time.Millisecond)
	fs.put("r2", "two")
	v := NewViewer(roomid.NewMemoryStore(""), fs, nopLogger(), WithAllRooms())

	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if v.Text() != "two" {
		t.Fatalf("expected newest message across rooms, got %q", v.Text())
	}
}

func TestViewerOnChange(t *testing.T) {
	fs := newFakeStore()
	fs.put("r1", "hello")

	var mu sync.Mutex
	var seen []Status
	v := NewViewer(roomid.NewMemoryStore("r1"), fs, nopLogger(), WithOnChange(func(s ViewState) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	}))

	_ = v.Refresh(context.Background())
	fs.setErr(errRemote)
	_ = v.Refresh(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != StatusOK || seen[1] != StatusError {
		t.Fatalf("unexpected notifications %v", seen)
	}
}

func TestPollerRefreshesUntilStopped(t *testing.T) {
	fs := newFakeStore()
	fs.put("r1", "hello")
	v := NewViewer(roomid.NewMemoryStore("r1"), fs, nopLogger(), WithInterval(5*time.Millisecond))

	p, err := v.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, gets, _ := fs.calls(); gets >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("poller did not refresh")
		}
		time.Sleep(5 * time.Millisecond)
	}

	p.Stop()
	_, before, _ := fs.calls()
	time.Sleep(30 * time.Millisecond)
	if _, after, _ := fs.calls(); after != before {
		t.Fatalf("poller kept fetching after stop: %d -> %d", before, after)
	}
	if v.Text() != "hello" {
		t.Fatalf("expected hello, got %q", v.Text())
	}

	select {
	case <-p.Done():
	default:
		t.Fatalf("done channel not closed")
	}
	p.Stop()
}

func TestPollerStopCancelsInflightFetch(t *testing.T) {
	fs := newFakeStore()
	entered := make(chan struct{})
	fs.getHook = func(ctx context.Context, call int) error {
		if call == 1 {
			close(entered)
		}
		<-ctx.Done()
		return ctx.Err()
	}
	v := NewViewer(roomid.NewMemoryStore("r1"), fs, nopLogger())

	p, err := v.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	<-entered

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("stop did not cancel the in-flight fetch")
	}

	if got := v.Snapshot().Status; got != StatusLoading {
		t.Fatalf("cancelled fetch must not change status, got %s", got)
	}
}

func TestViewerCancelledFetchRestoresStatus(t *testing.T) {
	fs := newFakeStore()
	fs.setErr(errRemote)
	v := NewViewer(roomid.NewMemoryStore("r1"), fs, nopLogger())

	if err := v.Refresh(context.Background()); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}

	entered := make(chan struct{})
	fs.getHook = func(ctx context.Context, call int) error {
		if call == 2 {
			close(entered)
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Refresh(ctx) }()

	<-entered
	if got := v.Snapshot().Status; got != StatusLoading {
		t.Fatalf("expected loading while fetching, got %s", got)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := v.Snapshot().Status; got != StatusError {
		t.Fatalf("cancelled fetch must restore the previous status, got %s", got)
	}
}
