package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/latestview/internal/relay"
)

func newWriteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "write [text...]",
		Short: "Replace the room's message (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd, e, args)
		},
	}
}

func runWrite(cmd *cobra.Command, e *env, args []string) error {
	w := relay.NewWriter(e.ids, e.api, e.log)

	room, err := w.Open()
	if err != nil {
		return explainRedirect(e, err)
	}

	text := strings.Join(args, " ")
	if len(args) == 0 {
		text, err = readText(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	if err := w.Save(cmd.Context(), text); err != nil {
		return explainRedirect(e, err)
	}

	switch w.Status() {
	case relay.StatusDone:
		fmt.Fprintf(e.out, "saved to %s\n", room)
	default:
		fmt.Fprintln(e.out, "nothing to save")
	}
	return nil
}

func readText(r io.Reader) (string, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(data), nil
}
