package core

// Client is a chat connection as seen by the core layer. Its identity is
// assigned by the transport and stays stable for the connection's lifetime;
// the username lives in the registry once the client joins a room.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
	}
}
