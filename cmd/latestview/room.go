package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/latestview/internal/relay"
)

func newRoomCmd(e *env) *cobra.Command {
	var generate, reset bool

	cmd := &cobra.Command{
		Use:   "room [id]",
		Short: "Show, set, generate or clear the room id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setup, err := relay.NewRoomSetup(e.ids, e.api, e.cfg.MinRoomIDLength, e.log)
			if err != nil {
				return err
			}

			switch {
			case reset:
				if err := setup.Reset(); err != nil {
					return err
				}
				fmt.Fprintln(e.out, "room id cleared")
				return nil
			case generate:
				id, err := setup.Generate()
				if err != nil {
					return err
				}
				return saveRoom(cmd, e, setup, id)
			case len(args) == 1:
				return saveRoom(cmd, e, setup, args[0])
			default:
				return showRoom(e)
			}
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random room id and store it")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the stored room id")
	cmd.MarkFlagsMutuallyExclusive("generate", "reset")
	return cmd
}

func saveRoom(cmd *cobra.Command, e *env, setup *relay.RoomSetup, candidate string) error {
	err := setup.Save(cmd.Context(), candidate)
	if err != nil {
		if errors.Is(err, relay.ErrRoomIDTaken) || errors.Is(err, relay.ErrRoomIDTooShort) || errors.Is(err, relay.ErrEmptyRoomID) {
			fmt.Fprintln(e.out, setup.Warning())
		}
		return err
	}
	fmt.Fprintf(e.out, "room id saved: %s\n", setup.State().Input)
	return nil
}

func showRoom(e *env) error {
	id, err := e.ids.Load()
	if err != nil {
		return err
	}
	if id == "" {
		return explainRedirect(e, &relay.RedirectError{To: relay.DestinationRoomSetup, Err: relay.ErrNoRoom})
	}
	fmt.Fprintln(e.out, id)
	return nil
}
