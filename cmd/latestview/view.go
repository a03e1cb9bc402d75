package main

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/latestview/internal/relay"
	"github.com/vovakirdan/latestview/internal/store"
)

type viewOptions struct {
	once  bool
	all   bool
	watch bool
}

func newViewCmd(e *env) *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the room's latest message and keep it fresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd.Context(), e, opts)
		},
	}
	cmd.Long = "Show the room's latest message and keep it fresh.\nPress Enter to refresh right away."

	cmd.Flags().BoolVar(&opts.once, "once", false, "fetch once and exit")
	cmd.Flags().BoolVar(&opts.all, "all", false, "show the newest message across all rooms")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "refresh as soon as the server reports a change")
	return cmd
}

func runView(ctx context.Context, e *env, opts viewOptions) error {
	var last string
	render := func(s relay.ViewState) {
		line := renderState(e, s)
		if line == last {
			return
		}
		last = line
		fmt.Fprintln(e.out, line)
	}

	viewerOpts := []relay.ViewerOption{relay.WithInterval(e.cfg.PollInterval)}
	if opts.all {
		viewerOpts = append(viewerOpts, relay.WithAllRooms())
	}

	if opts.once {
		v := relay.NewViewer(e.ids, e.api, e.log, viewerOpts...)
		if err := v.Refresh(ctx); err != nil {
			return explainRedirect(e, err)
		}
		render(v.Snapshot())
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v := relay.NewViewer(e.ids, e.api, e.log, append(viewerOpts, relay.WithOnChange(render))...)
	poller, err := v.Start(ctx)
	if err != nil {
		return explainRedirect(e, err)
	}
	defer poller.Stop()

	if opts.watch && !opts.all {
		go watch(ctx, e, v)
	}
	if e.in != nil {
		go refreshOnEnter(ctx, e, v)
	}

	select {
	case <-ctx.Done():
	case <-poller.Done():
	}
	return nil
}

// watch triggers a refresh on every server push. Polling keeps running if it fails.
func watch(ctx context.Context, e *env, v *relay.Viewer) {
	room := v.Snapshot().RoomID
	err := e.api.Watch(ctx, room, func(*store.Message) {
		_ = v.Refresh(ctx)
	})
	if err != nil {
		e.log.Warn().Err(err).Str("room_id", room).Msg("watch stopped, falling back to polling")
	}
}

// refreshOnEnter refreshes once per input line, independently of the poll timer.
func refreshOnEnter(ctx context.Context, e *env, v *relay.Viewer) {
	scanner := bufio.NewScanner(e.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		_ = v.Refresh(ctx)
	}
	if err := scanner.Err(); err != nil {
		e.log.Debug().Err(err).Msg("stopped reading refresh input")
	}
}

func renderState(e *env, s relay.ViewState) string {
	text := s.Text()
	if s.Status != relay.StatusOK || s.Message == nil {
		return text
	}
	prefix := ""
	if s.RoomID == "" {
		prefix = "[" + s.Message.RoomID + "] "
	}
	return fmt.Sprintf("%s%s  (%s)", prefix, text, relay.FormatUpdated(s.Message.CreatedAt, e.loc))
}
