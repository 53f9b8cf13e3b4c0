package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/federicofloresta/chatroom-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	user := flag.String("user", "tester", "username to join with")
	room := flag.String("room", "general", "room name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ, id string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, ID: id, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", typ, err)
		}
		return nil
	}

	waitAck := func(id string) error {
		for {
			var outbound proto.Outbound
			if err := wsjson.Read(ctx, conn, &outbound); err != nil {
				return fmt.Errorf("read: %w", err)
			}
			if outbound.Type != proto.OutboundTypeAck || outbound.ID != id {
				continue
			}
			if outbound.Error != nil {
				return fmt.Errorf("%s rejected: %s", id, outbound.Error.Msg)
			}
			return nil
		}
	}

	if err := send(proto.InboundTypeJoin, "join", proto.JoinData{Username: *user, Room: *room}); err != nil {
		return err
	}
	if err := waitAck("join"); err != nil {
		return err
	}
	fmt.Printf("joined room %s as %s\n", *room, *user)

	if err := send(proto.InboundTypeSendMessage, "msg", proto.SendMessageData{Text: *text}); err != nil {
		return err
	}
	if err := waitAck("msg"); err != nil {
		return err
	}
	fmt.Println("message acknowledged")

	if err := send(proto.InboundTypeSendLocation, "loc", proto.SendLocationData{Latitude: 51.5072, Longitude: -0.1276}); err != nil {
		return err
	}
	if err := waitAck("loc"); err != nil {
		return err
	}
	fmt.Println("location acknowledged")

	return nil
}
