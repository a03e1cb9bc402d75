package http

import (
	"github.com/vovakirdan/latestview/internal/core"
	"github.com/vovakirdan/latestview/internal/proto"
	"github.com/vovakirdan/latestview/internal/store"
)

func messageToProto(msg *store.Message) *proto.Message {
	if msg == nil {
		return nil
	}
	return &proto.Message{
		RoomID:    msg.RoomID,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt.UTC(),
	}
}

func outboundFromEvent(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventMessageUpdated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessageUpdated,
			Data: &proto.Message{
				RoomID:    ev.Message.Room,
				Text:      ev.Message.Text,
				CreatedAt: ev.Message.CreatedAt.UTC(),
			},
		}
	case core.EventError:
		out := proto.Outbound{Type: proto.OutboundTypeError}
		if ev.Error != nil {
			out.Error = &proto.Error{Code: ev.Error.Code, Msg: ev.Error.Message}
		}
		return out
	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: core.ErrCodeInternal, Msg: "unknown event"},
		}
	}
}
