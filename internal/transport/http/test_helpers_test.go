package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/config"
	"github.com/vovakirdan/latestview/internal/core"
	"github.com/vovakirdan/latestview/internal/store"
	"github.com/vovakirdan/latestview/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", sqlite.ApplySchema)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func testConfig() config.Config {
	return config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		MaxTextBytes:      64,
		MaxRoomIDLength:   32,
	}
}

type testEnv struct {
	server *httptest.Server
	store  store.Store
	hub    *core.Hub
}

func startTestServer(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()

	st := createTestStore(t)

	hub := core.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	disabledLogger := zerolog.New(nil).Level(zerolog.Disabled)

	server := NewServer(hub, st, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, store: st, hub: hub}
}
