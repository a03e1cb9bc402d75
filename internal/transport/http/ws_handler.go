package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/core"
	"github.com/vovakirdan/latestview/internal/proto"
)

// WatchHandler upgrades HTTP connections and streams room updates from core.Hub.
type WatchHandler struct {
	hub    *core.Hub
	limits core.Limits
	log    *zerolog.Logger
}

// NewWatchHandler builds a new websocket watch handler.
func NewWatchHandler(hub *core.Hub, limits core.Limits, logger *zerolog.Logger) *WatchHandler {
	return &WatchHandler{hub: hub, limits: limits, log: logger}
}

// ServeHTTP streams message_updated events for a room until either side closes.
// GET /api/rooms/{room_id}/watch
func (h *WatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID, err := core.NormalizeRoomID(r.PathValue("room_id"), h.limits)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, proto.ErrorResponse{Error: err.Error(), Code: core.ErrorCode(err)})
		return
	}
	if h.hub == nil {
		writeJSON(w, http.StatusServiceUnavailable, proto.ErrorResponse{Error: "watch is not available", Code: core.ErrCodeWatchCancelled})
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()

	sub := core.NewSubscriber(uuid.NewString(), roomID)
	if !h.hub.Subscribe(sub) {
		h.writeError(r.Context(), conn, core.ErrorEvent(roomID, core.ErrCodeWatchCancelled, "server is shutting down"))
		conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	defer h.hub.Unsubscribe(sub)

	h.log.Debug().Str("room_id", roomID).Str("subscriber_id", sub.ID).Msg("watch started")

	// Watchers never send data; CloseRead handles control frames and cancels ctx on close.
	ctx := conn.CloseRead(r.Context())

	err = h.writeLoop(ctx, conn, sub)

	status := websocket.StatusNormalClosure
	reason := "closing"
	switch {
	case err == nil:
		status = websocket.StatusGoingAway
		reason = "shutting down"
	case errors.Is(err, context.Canceled):
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway:
	default:
		h.log.Warn().Err(err).Str("subscriber_id", sub.ID).Msg("ws watch closed with error")
		status = websocket.StatusInternalError
		reason = "write failed"
	}

	conn.Close(status, reason)
	h.log.Debug().Str("room_id", roomID).Str("subscriber_id", sub.ID).Msg("watch finished")
}

// writeLoop returns nil when the hub closes the subscription.
func (h *WatchHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *core.Subscriber) error {
	for {
		select {
		case ev, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(ev)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WatchHandler) writeError(ctx context.Context, conn *websocket.Conn, ev *core.Event) {
	if err := wsjson.Write(ctx, conn, outboundFromEvent(ev)); err != nil {
		h.log.Debug().Err(err).Msg("write ws error frame")
	}
}
