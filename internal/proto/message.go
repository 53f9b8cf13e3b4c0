package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client. ID is an
// optional client-chosen token echoed back on the acknowledgement.
type Inbound struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin         = "join"
	InboundTypeSendMessage  = "sendMessage"
	InboundTypeSendLocation = "sendLocation"

	OutboundTypeEvent = "event"
	OutboundTypeAck   = "ack"
	OutboundTypeError = "error"

	EventMessage         = "message"
	EventLocationMessage = "locationMessage"
	EventRoomData        = "roomData"
)

// JoinData requests to join a room under a username.
type JoinData struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// SendMessageData is a chat message from the client.
type SendMessageData struct {
	Text string `json:"text"`
}

// SendLocationData shares the client's coordinates.
type SendLocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MessagePayload is the wire form of a chat message. CreatedAt is epoch
// milliseconds.
type MessagePayload struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// LocationMessagePayload is the wire form of a shared location.
type LocationMessagePayload struct {
	Username  string `json:"username"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
}

// RoomUser is one roster entry in a roomData payload.
type RoomUser struct {
	Username string `json:"username"`
}

// RoomDataPayload is the wire form of a room roster snapshot.
type RoomDataPayload struct {
	Room  string     `json:"room"`
	Users []RoomUser `json:"users"`
}

// Error describes a rejected command or a protocol-level error.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
