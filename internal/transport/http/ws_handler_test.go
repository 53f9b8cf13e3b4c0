package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/federicofloresta/chatroom-server/internal/config"
	"github.com/federicofloresta/chatroom-server/internal/core"
	"github.com/federicofloresta/chatroom-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := core.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, testLogger())

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, typ, id string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, ID: id, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Outbound {
	t.Helper()

	var out proto.Outbound
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return out
}

// decodeData re-marshals the loosely typed Data field into a concrete payload.
func decodeData(t *testing.T, data any, dst any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func expectMessage(t *testing.T, ctx context.Context, conn *websocket.Conn, username, text string) {
	t.Helper()

	out := readOutbound(t, ctx, conn)
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventMessage {
		t.Fatalf("expected message event, got %+v", out)
	}
	var msg proto.MessagePayload
	decodeData(t, out.Data, &msg)
	if msg.Username != username || msg.Text != text {
		t.Fatalf("unexpected message payload: %+v", msg)
	}
	if msg.CreatedAt == 0 {
		t.Fatal("message payload missing createdAt")
	}
}

func expectRoomData(t *testing.T, ctx context.Context, conn *websocket.Conn, room string, users ...string) {
	t.Helper()

	out := readOutbound(t, ctx, conn)
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventRoomData {
		t.Fatalf("expected roomData event, got %+v", out)
	}
	var data proto.RoomDataPayload
	decodeData(t, out.Data, &data)
	if data.Room != room {
		t.Fatalf("unexpected room: %+v", data)
	}
	if len(data.Users) != len(users) {
		t.Fatalf("expected %d users, got %+v", len(users), data.Users)
	}
	for i, name := range users {
		if data.Users[i].Username != name {
			t.Fatalf("unexpected roster: %+v", data.Users)
		}
	}
}

func expectAck(t *testing.T, ctx context.Context, conn *websocket.Conn, id string) {
	t.Helper()

	out := readOutbound(t, ctx, conn)
	if out.Type != proto.OutboundTypeAck || out.ID != id || out.Error != nil {
		t.Fatalf("expected clean ack %q, got %+v", id, out)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinMessageAndLeave(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dialWS(t, ctx, ts)

	// Alice joins: welcome, roster, ack - in that order.
	sendInbound(t, ctx, connA, proto.InboundTypeJoin, "j1", proto.JoinData{Username: "alice", Room: "lobby"})
	expectMessage(t, ctx, connA, core.AdminName, "Welcome!")
	expectRoomData(t, ctx, connA, "lobby", "alice")
	expectAck(t, ctx, connA, "j1")

	// Bob joins: alice hears about it before the refreshed roster.
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, "j2", proto.JoinData{Username: "bob", Room: "lobby"})
	expectMessage(t, ctx, connB, core.AdminName, "Welcome!")
	expectRoomData(t, ctx, connB, "lobby", "alice", "bob")
	expectAck(t, ctx, connB, "j2")

	expectMessage(t, ctx, connA, core.AdminName, "bob has joined!")
	expectRoomData(t, ctx, connA, "lobby", "alice", "bob")

	// A chat message reaches the whole room, sender included.
	sendInbound(t, ctx, connA, proto.InboundTypeSendMessage, "m1", proto.SendMessageData{Text: "hi there"})
	expectMessage(t, ctx, connA, "alice", "hi there")
	expectAck(t, ctx, connA, "m1")
	expectMessage(t, ctx, connB, "alice", "hi there")

	// Shared location arrives as a map link.
	sendInbound(t, ctx, connB, proto.InboundTypeSendLocation, "l1", proto.SendLocationData{Latitude: 40.7128, Longitude: -74.006})
	out := readOutbound(t, ctx, connA)
	if out.Event != proto.EventLocationMessage {
		t.Fatalf("expected locationMessage, got %+v", out)
	}
	var loc proto.LocationMessagePayload
	decodeData(t, out.Data, &loc)
	if loc.Username != "bob" || loc.URL != "https://google.com/maps?q=40.7128,-74.006" {
		t.Fatalf("unexpected location payload: %+v", loc)
	}

	// Bob leaves: alice gets the notice and the shrunken roster.
	connB.Close(websocket.StatusNormalClosure, "bye")
	expectMessage(t, ctx, connA, core.AdminName, "bob has left")
	expectRoomData(t, ctx, connA, "lobby", "alice")
}

func TestWebSocketJoinRejections(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")

	// Empty username after trimming.
	sendInbound(t, ctx, connA, proto.InboundTypeJoin, "j1", proto.JoinData{Username: "   ", Room: "lobby"})
	out := readOutbound(t, ctx, connA)
	if out.Type != proto.OutboundTypeAck || out.Error == nil || out.Error.Code != core.ErrCodeValidation {
		t.Fatalf("expected validation error ack, got %+v", out)
	}

	// The connection may retry after a failed join.
	sendInbound(t, ctx, connA, proto.InboundTypeJoin, "j2", proto.JoinData{Username: "alice", Room: "lobby"})
	expectMessage(t, ctx, connA, core.AdminName, "Welcome!")
	expectRoomData(t, ctx, connA, "lobby", "alice")
	expectAck(t, ctx, connA, "j2")

	// A second connection cannot take the same name in the same room.
	connB := dialWS(t, ctx, ts)
	defer connB.Close(websocket.StatusNormalClosure, "done")
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, "j3", proto.JoinData{Username: "alice", Room: "lobby"})
	out = readOutbound(t, ctx, connB)
	if out.Type != proto.OutboundTypeAck || out.Error == nil || out.Error.Code != core.ErrCodeNameTaken {
		t.Fatalf("expected name_taken error ack, got %+v", out)
	}
}

func TestWebSocketSendBeforeJoin(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	sendInbound(t, ctx, conn, proto.InboundTypeSendMessage, "m1", proto.SendMessageData{Text: "hi"})
	out := readOutbound(t, ctx, conn)
	if out.Type != proto.OutboundTypeAck || out.Error == nil || out.Error.Code != core.ErrCodeUnknownUser {
		t.Fatalf("expected unknown_user error ack, got %+v", out)
	}
}

func TestWebSocketUnknownTypeRejectedInPlace(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: "bogus", ID: "x"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := readOutbound(t, ctx, conn)
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != "invalid_message" {
		t.Fatalf("expected protocol error, got %+v", out)
	}
}
