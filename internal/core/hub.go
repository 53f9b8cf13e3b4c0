package core

import (
	"context"

	"github.com/rs/zerolog"
)

// AdminName is the author attributed to server-generated notices.
const AdminName = "Admin"

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub owns the registry and the room map and runs the connection lifecycle
// state machine: connect, join, send, disconnect. All registry and room
// mutations happen on the single Run goroutine; per-client forwarders keep
// each connection's commands in order.
type Hub struct {
	log      *zerolog.Logger
	registry *Registry

	rooms   map[string]*Room
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
}

// NewHub creates a hub with an empty registry.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:        logger,
		registry:   NewRegistry(),
		rooms:      make(map[string]*Room),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
	}
}

// RegisterClient hands a freshly connected client to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient tells the hub the connection has terminated. Idempotent:
// repeated calls for the same client have no further effects.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Registry exposes the user registry for read-side consumers.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Run processes registrations, disconnects, and client commands until the
// context is canceled. Start it on its own goroutine before accepting
// connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleRegister(ctx, c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case cc := <-h.commands:
			h.handleCommand(cc.client, cc.cmd)
		}
	}
}

// handleRegister tracks the connection and starts its command forwarder.
// No registry effect and no broadcast until the client joins.
func (h *Hub) handleRegister(ctx context.Context, c *Client) {
	h.clients[c] = struct{}{}
	h.log.Info().Str("client_id", c.ID).Msg("client connected")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case cmd, ok := <-c.Commands:
				if !ok {
					return
				}
				select {
				case h.commands <- clientCommand{client: c, cmd: cmd}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	if _, live := h.clients[c]; !live {
		return
	}

	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd)
	case CommandSendMessage:
		h.handleSendMessage(c, cmd)
	case CommandSendLocation:
		h.handleSendLocation(c, cmd)
	default:
		h.ack(c, cmd.AckID, coreError(ErrCodeBadRequest, "unknown command"))
	}
}

// handleJoin runs the join protocol. On success the ordering matters: the
// joiner gets the welcome before the room hears about them, and the roster
// update always comes last so it reflects the committed membership.
func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if _, joined := h.registry.GetUser(c.ID); joined {
		h.ack(c, cmd.AckID, coreError(ErrCodeAlreadyJoined, "already joined a room"))
		return
	}

	user, err := h.registry.AddUser(c.ID, cmd.Username, cmd.Room)
	if err != nil {
		h.log.Debug().Err(err).Str("client_id", c.ID).Msg("join rejected")
		h.ack(c, cmd.AckID, asCoreError(err))
		return
	}

	room := h.room(user.Room)
	room.AddClient(c)

	h.send(c, &Event{Kind: EventMessage, Message: NewMessage(AdminName, "Welcome!")})
	room.BroadcastExcept(c, &Event{
		Kind:    EventMessage,
		Message: NewMessage(AdminName, user.Username+" has joined!"),
	})
	room.Broadcast(&Event{Kind: EventRoomData, RoomData: h.snapshot(user.Room)})
	h.ack(c, cmd.AckID, nil)

	h.log.Info().
		Str("client_id", c.ID).
		Str("user", user.Username).
		Str("room", user.Room).
		Msg("user joined")
}

func (h *Hub) handleSendMessage(c *Client, cmd *Command) {
	user, ok := h.registry.GetUser(c.ID)
	if !ok {
		h.ack(c, cmd.AckID, coreError(ErrCodeUnknownUser, "join a room first"))
		return
	}

	room := h.rooms[user.Room]
	if room == nil {
		h.ack(c, cmd.AckID, coreError(ErrCodeUnknownUser, "join a room first"))
		return
	}

	room.Broadcast(&Event{Kind: EventMessage, Message: NewMessage(user.Username, cmd.Text)})
	h.ack(c, cmd.AckID, nil)
}

func (h *Hub) handleSendLocation(c *Client, cmd *Command) {
	user, ok := h.registry.GetUser(c.ID)
	if !ok {
		h.ack(c, cmd.AckID, coreError(ErrCodeUnknownUser, "join a room first"))
		return
	}

	room := h.rooms[user.Room]
	if room == nil {
		h.ack(c, cmd.AckID, coreError(ErrCodeUnknownUser, "join a room first"))
		return
	}

	url := LocationURL(cmd.Latitude, cmd.Longitude)
	room.Broadcast(&Event{
		Kind:     EventLocationMessage,
		Location: NewLocationMessage(user.Username, url),
	})
	h.ack(c, cmd.AckID, nil)
}

// handleDisconnect removes the connection and, if it had joined, notifies
// the remainder of the room and refreshes its roster. Connections that
// never joined disconnect silently.
func (h *Hub) handleDisconnect(c *Client) {
	if _, live := h.clients[c]; !live {
		return
	}
	delete(h.clients, c)
	close(c.Commands)

	user, removed := h.registry.RemoveUser(c.ID)
	if removed {
		if room := h.rooms[user.Room]; room != nil {
			room.RemoveClient(c)
			room.Broadcast(&Event{
				Kind:    EventMessage,
				Message: NewMessage(AdminName, user.Username+" has left"),
			})
			room.Broadcast(&Event{Kind: EventRoomData, RoomData: h.snapshot(user.Room)})
			if room.Empty() {
				delete(h.rooms, user.Room)
			}
		}
		h.log.Info().
			Str("client_id", c.ID).
			Str("user", user.Username).
			Str("room", user.Room).
			Msg("user left")
		return
	}

	h.log.Info().Str("client_id", c.ID).Msg("client disconnected")
}

// room returns the named room, creating it on first use.
func (h *Hub) room(name string) *Room {
	r, ok := h.rooms[name]
	if !ok {
		r = NewRoom(name)
		h.rooms[name] = r
	}
	return r
}

func (h *Hub) snapshot(room string) RoomSnapshot {
	return RoomSnapshot{Room: room, Users: h.registry.UsersInRoom(room)}
}

func (h *Hub) ack(c *Client, ackID string, cerr *CoreError) {
	h.send(c, &Event{Kind: EventAck, AckID: ackID, Error: cerr})
}

func (h *Hub) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
