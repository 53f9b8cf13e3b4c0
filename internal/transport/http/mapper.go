package http

import (
	"encoding/json"

	"github.com/federicofloresta/chatroom-server/internal/core"
	"github.com/federicofloresta/chatroom-server/internal/proto"
)

// inboundToCommand maps a wire envelope to a core command. A returned
// *proto.Error means the frame was malformed and should be answered in
// place without reaching the hub; a plain error is fatal for the read loop.
// Field-level validation (trimming, empty checks) belongs to the core.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:     core.CommandJoin,
			AckID:    inbound.ID,
			Username: join.Username,
			Room:     join.Room,
		}, nil, nil
	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:  core.CommandSendMessage,
			AckID: inbound.ID,
			Text:  msg.Text,
		}, nil, nil
	case proto.InboundTypeSendLocation:
		var loc proto.SendLocationData
		if err := json.Unmarshal(inbound.Data, &loc); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:      core.CommandSendLocation,
			AckID:     inbound.ID,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessage,
			Data: proto.MessagePayload{
				Username:  event.Message.Username,
				Text:      event.Message.Text,
				CreatedAt: event.Message.CreatedAt.UnixMilli(),
			},
		}
	case core.EventLocationMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventLocationMessage,
			Data: proto.LocationMessagePayload{
				Username:  event.Location.Username,
				URL:       event.Location.URL,
				CreatedAt: event.Location.CreatedAt.UnixMilli(),
			},
		}
	case core.EventRoomData:
		users := make([]proto.RoomUser, 0, len(event.RoomData.Users))
		for _, u := range event.RoomData.Users {
			users = append(users, proto.RoomUser{Username: u.Username})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomData,
			Data: proto.RoomDataPayload{
				Room:  event.RoomData.Room,
				Users: users,
			},
		}
	case core.EventAck:
		out := proto.Outbound{
			Type: proto.OutboundTypeAck,
			ID:   event.AckID,
		}
		if event.Error != nil {
			out.Error = &proto.Error{Code: event.Error.Code, Msg: event.Error.Message}
		}
		return out
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
