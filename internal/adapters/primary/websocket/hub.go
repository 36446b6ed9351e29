package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/presence"
)

// Hub maintains the set of active clients, the project rooms they have
// joined, and fans ticket events out to room members. Presence
// bookkeeping is delegated to the registry so the offline notification
// path can read it without touching the transport.
type Hub struct {
	// rooms maps project IDs to the clients joined to that room.
	rooms map[uuid.UUID]map[*Client]bool

	// presence is shared with the notification service.
	presence *presence.Registry

	// broadcast carries marshaled room messages from services.
	broadcast chan roomMessage

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the rooms map
	mu sync.RWMutex

	logger *slog.Logger
}

type roomMessage struct {
	projectID uuid.UUID
	payload   []byte
}

// Ensure Hub implements the RoomBroadcaster interface.
var _ ports.RoomBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub backed by the given presence registry.
func NewHub(registry *presence.Registry, logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		presence:   registry,
		broadcast:  make(chan roomMessage, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast delivers a ticket event to every connection in the project's
// room, including the one that triggered the mutation. An empty room is
// a successful no-op.
func (h *Hub) Broadcast(projectID uuid.UUID, event domain.TicketEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- roomMessage{projectID: projectID, payload: payload}:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"project_id", projectID,
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.broadcastToRoom(msg)
		}
	}
}

// registerClient tracks a freshly upgraded connection. The client is not
// in any room until it sends a join message.
func (h *Hub) registerClient(client *Client) {
	h.logger.Info("client connected",
		"conn_id", client.ID,
		"user_id", client.UserID,
	)
}

// unregisterClient removes a client from every joined room and clears
// its presence. Fired on read-pump exit, which covers both explicit
// disconnects and transport-level timeouts.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	for _, projectID := range client.JoinedRooms() {
		if room, ok := h.rooms[projectID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, projectID)
			}
		}
	}
	h.mu.Unlock()

	h.presence.RegisterDisconnect(client.ID)
	client.CloseSend()

	h.logger.Info("client disconnected", "conn_id", client.ID)
}

// joinRoom adds the client to a project room and records presence.
// Returns the room key for the acknowledgment.
func (h *Hub) joinRoom(client *Client, projectID, userID uuid.UUID) string {
	h.mu.Lock()
	if h.rooms[projectID] == nil {
		h.rooms[projectID] = make(map[*Client]bool)
	}
	h.rooms[projectID][client] = true
	h.mu.Unlock()

	client.addRoom(projectID)
	h.presence.RegisterJoin(client.ID, projectID, userID)

	room := domain.RoomKey(projectID)
	h.logger.Debug("client joined room",
		"conn_id", client.ID,
		"user_id", userID,
		"room", room,
	)
	return room
}

// broadcastToRoom fans a marshaled payload out to every room member.
func (h *Hub) broadcastToRoom(msg roomMessage) {
	h.mu.RLock()
	room, ok := h.rooms[msg.projectID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting to room",
		"project_id", msg.projectID,
		"client_count", len(clients),
	)

	var stalled []*Client
	for _, client := range clients {
		select {
		case client.send <- msg.payload:
			// Successfully queued
		default:
			// Client's send buffer is full, drop the connection
			h.logger.Warn("client send buffer full, unregistering",
				"conn_id", client.ID,
			)
			stalled = append(stalled, client)
		}
	}

	// This already runs on the hub goroutine, so stalled clients must be
	// unregistered inline; pushing them onto the Unregister channel would
	// block against our own select loop.
	for _, client := range stalled {
		h.unregisterClient(client)
	}
}

// ClientsInRoom returns the number of clients joined to a project's room.
func (h *Hub) ClientsInRoom(projectID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}

// RoomCount returns the number of active rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
