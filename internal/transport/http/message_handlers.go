package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/core"
	"github.com/vovakirdan/latestview/internal/proto"
	"github.com/vovakirdan/latestview/internal/store"
)

// MessageHandlers provides HTTP handlers for the room message endpoints.
type MessageHandlers struct {
	store  store.MessageStore
	hub    *core.Hub
	limits core.Limits
	log    *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
// hub may be nil, in which case writes are not announced to watchers.
func NewMessageHandlers(st store.MessageStore, hub *core.Hub, limits core.Limits, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		store:  st,
		hub:    hub,
		limits: limits,
		log:    logger,
	}
}

// GetRoomMessage returns the message of a room, null when there is none.
// GET /api/rooms/:room_id/message
func (h *MessageHandlers) GetRoomMessage(c *gin.Context) {
	roomID, ok := h.roomParam(c)
	if !ok {
		return
	}

	msg, err := h.store.GetMessage(c.Request.Context(), roomID)
	if err != nil {
		h.internalError(c, err, roomID, "failed to get message")
		return
	}

	c.JSON(http.StatusOK, proto.MessageResponse{Message: messageToProto(msg)})
}

// PutRoomMessage replaces the message of a room.
// PUT /api/rooms/:room_id/message
func (h *MessageHandlers) PutRoomMessage(c *gin.Context) {
	roomID, ok := h.roomParam(c)
	if !ok {
		return
	}

	if h.limits.MaxTextBytes > 0 {
		// JSON escaping can inflate each byte up to six ("\u00XX").
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.limits.MaxTextBytes)*6+1024)
	}

	var req proto.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, proto.ErrorResponse{Error: "request body too large", Code: core.ErrCodeTextTooLarge})
			return
		}
		h.log.Debug().Err(err).Msg("invalid upsert request")
		c.JSON(http.StatusBadRequest, proto.ErrorResponse{Error: "invalid request body", Code: core.ErrCodeBadRequest})
		return
	}

	text, err := core.NormalizeText(req.Text, h.limits)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrTextTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, proto.ErrorResponse{Error: err.Error(), Code: core.ErrorCode(err)})
		return
	}

	msg, err := h.store.UpsertMessage(c.Request.Context(), roomID, text)
	if err != nil {
		h.internalError(c, err, roomID, "failed to upsert message")
		return
	}

	if h.hub != nil {
		h.hub.PublishMessage(core.Message{Room: msg.RoomID, Text: msg.Text, CreatedAt: msg.CreatedAt})
	}

	h.log.Info().Str("room_id", roomID).Int("text_bytes", len(text)).Msg("message replaced")
	c.JSON(http.StatusOK, proto.MessageResponse{Message: messageToProto(msg)})
}

// GetLatest returns the newest message, optionally filtered by the room_id query parameter.
// GET /api/messages/latest
func (h *MessageHandlers) GetLatest(c *gin.Context) {
	roomID := ""
	if raw, present := c.GetQuery("room_id"); present {
		id, err := core.NormalizeRoomID(raw, h.limits)
		if err != nil {
			c.JSON(http.StatusBadRequest, proto.ErrorResponse{Error: err.Error(), Code: core.ErrorCode(err)})
			return
		}
		roomID = id
	}

	msg, err := h.store.LatestMessage(c.Request.Context(), roomID)
	if err != nil {
		h.internalError(c, err, roomID, "failed to get latest message")
		return
	}

	c.JSON(http.StatusOK, proto.MessageResponse{Message: messageToProto(msg)})
}

// GetRoom reports whether a room id already has a message.
// GET /api/rooms/:room_id
func (h *MessageHandlers) GetRoom(c *gin.Context) {
	roomID, ok := h.roomParam(c)
	if !ok {
		return
	}

	exists, err := h.store.RoomExists(c.Request.Context(), roomID)
	if err != nil {
		h.internalError(c, err, roomID, "failed to check room")
		return
	}

	c.JSON(http.StatusOK, proto.RoomResponse{RoomID: roomID, Exists: exists})
}

func (h *MessageHandlers) roomParam(c *gin.Context) (string, bool) {
	roomID, err := core.NormalizeRoomID(c.Param("room_id"), h.limits)
	if err != nil {
		c.JSON(http.StatusBadRequest, proto.ErrorResponse{Error: err.Error(), Code: core.ErrorCode(err)})
		return "", false
	}
	return roomID, true
}

func (h *MessageHandlers) internalError(c *gin.Context, err error, roomID, msg string) {
	h.log.Error().Err(err).Str("room_id", roomID).Str("request_id", c.GetString(ContextKeyRequestID)).Msg(msg)
	c.JSON(http.StatusInternalServerError, proto.ErrorResponse{Error: "internal server error", Code: core.ErrCodeInternal})
}
