package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vovakirdan/latestview/internal/client"
	applog "github.com/vovakirdan/latestview/internal/log"
	"github.com/vovakirdan/latestview/internal/roomid"
	"github.com/vovakirdan/latestview/internal/store"
)

func main() {
	logger := applog.New("info", "console")
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("watch_smoke failed")
		os.Exit(1)
	}
	logger.Info().Msg("watch_smoke ok")
}

func run() error {
	server := flag.String("server", "http://localhost:8080", "latestview server URL")
	room := flag.String("room", "", "room id (random when empty)")
	text := flag.String("text", "hello from smoke test", "message text to write")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *room == "" {
		id, err := roomid.Generate()
		if err != nil {
			return err
		}
		*room = id
	}

	api, err := client.New(*server, client.WithUserAgent("watch_smoke"))
	if err != nil {
		return err
	}
	if _, err := api.Health(ctx); err != nil {
		return fmt.Errorf("health: %w", err)
	}

	received := make(chan *store.Message, 1)
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- api.Watch(watchCtx, *room, func(m *store.Message) {
			select {
			case received <- m:
			default:
			}
		})
	}()

	// The subscription is registered asynchronously; give it a moment.
	time.Sleep(200 * time.Millisecond)

	if _, err := api.UpsertMessage(ctx, *room, *text); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	select {
	case m := <-received:
		fmt.Printf("received update: room=%s text=%q created_at=%s\n", m.RoomID, m.Text, m.CreatedAt.Format(time.RFC3339))
	case err := <-watchErr:
		if err == nil {
			err = errors.New("watch ended early")
		}
		return err
	case <-ctx.Done():
		return fmt.Errorf("no update received: %w", ctx.Err())
	}

	got, err := api.GetMessage(ctx, *room)
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	if got == nil || got.Text != *text {
		return fmt.Errorf("read back mismatch: %+v", got)
	}
	return nil
}
