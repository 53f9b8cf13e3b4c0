package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage carries a chat message to room members.
	EventMessage EventKind = iota
	// EventLocationMessage carries a shared map link to room members.
	EventLocationMessage
	// EventRoomData carries a fresh roster snapshot for the room.
	EventRoomData
	// EventAck confirms to the originator that a command was processed.
	// A non-nil Error means the command was rejected.
	EventAck
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Message  Message
	Location LocationMessage
	RoomData RoomSnapshot
	AckID    string
	Error    *CoreError
}

// RoomSnapshot is a derived view of a room's membership, recomputed from
// the registry on every join and leave. Never cached.
type RoomSnapshot struct {
	Room  string
	Users []User
}
