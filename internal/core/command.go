package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin enters a room under a username.
	CommandJoin CommandKind = iota
	// CommandSendMessage delivers a chat message to the client's room.
	CommandSendMessage
	// CommandSendLocation shares the client's coordinates with the room.
	CommandSendLocation
)

// Command represents an action requested by a client. AckID is echoed back
// on the acknowledgement event once the command has been processed.
type Command struct {
	Kind      CommandKind
	AckID     string
	Username  string
	Room      string
	Text      string
	Latitude  float64
	Longitude float64
}
