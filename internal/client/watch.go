package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/latestview/internal/proto"
	"github.com/vovakirdan/latestview/internal/store"
)

// Watch subscribes to update notifications for roomID and calls onUpdate for each one.
// It blocks until ctx is cancelled (returning nil) or the stream fails.
func (c *Client) Watch(ctx context.Context, roomID string, onUpdate func(*store.Message)) error {
	wsURL := c.endpoint(roomPath(roomID, "watch"), nil)
	wsURL = "ws" + strings.TrimPrefix(wsURL, "http")

	header := http.Header{}
	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}

	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dial watch: %w", err)
	}
	defer conn.CloseNow()

	c.log.Debug().Str("room_id", roomID).Msg("watch connected")

	for {
		var out proto.Outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			if ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "bye")
				return nil
			}
			if status := websocket.CloseStatus(err); status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return fmt.Errorf("watch closed by server: %w", err)
			}
			return fmt.Errorf("read watch: %w", err)
		}

		switch out.Type {
		case proto.OutboundTypeEvent:
			if out.Event == proto.EventMessageUpdated && out.Data != nil {
				onUpdate(messageFromProto(out.Data))
			}
		case proto.OutboundTypeError:
			if out.Error != nil {
				return &APIError{Status: http.StatusServiceUnavailable, Code: out.Error.Code, Message: out.Error.Msg}
			}
			return errors.New("watch error without details")
		}
	}
}
