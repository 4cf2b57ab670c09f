package ws_room

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/addy/pointing-poker-api/internal/model"
)

// sendBufferSize bounds the per-subscriber backlog. A subscriber whose
// buffer is full gets dropped instead of blocking the publisher.
const sendBufferSize = 32

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan model.RoomEvent
	roomID model.RoomID
	userID model.UserID
}

// Hub maps each room to the set of clients subscribed to its events.
// At most one entry is alive per room id at any time.
type Hub struct {
	mu sync.RWMutex

	rooms map[model.RoomID]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[model.RoomID]map[*Client]bool),
		logger: logger,
	}
}

// Ensure registers the room's subscriber set if it does not exist yet.
func (h *Hub) Ensure(roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
}

// Publish delivers the event to every current subscriber of the room.
// Never blocks: a client whose send buffer is full is closed and
// dropped. Publishing to an unknown room is a no-op.
func (h *Hub) Publish(roomID model.RoomID, event model.RoomEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	for client := range clients {
		select {
		case client.send <- event:
		default:
			close(client.send)
			delete(clients, client)
			h.logger.Warn("dropped slow subscriber",
				"room_id", roomID.String(),
				"user_id", client.userID.String())
		}
	}
}

// Remove tears the room's channel down. Subscribers observe closure and
// end their write loops.
func (h *Hub) Remove(roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	for client := range clients {
		close(client.send)
	}
	delete(h.rooms, roomID)

	h.logger.Info("room channel removed", "room_id", roomID.String())
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[client.roomID]; !ok {
		h.rooms[client.roomID] = make(map[*Client]bool)
	}
	h.rooms[client.roomID][client] = true

	h.logger.Info("client registered",
		"room_id", client.roomID.String(),
		"user_id", client.userID.String())
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.roomID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		// Already dropped by Publish or Remove, nothing to close.
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.roomID)
	}

	h.logger.Info("client unregistered",
		"room_id", client.roomID.String(),
		"user_id", client.userID.String())
}

// writeLoop forwards room events to the socket until the send channel
// closes or a write fails.
func (c *Client) writeLoop() {
	defer c.conn.Close()

	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			break
		}
	}
}

// readLoop drains inbound frames so the connection stays readable.
// Clients talk through the REST API; whatever they send here is
// ignored. Exiting unregisters the client, which ends the write loop.
func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
