package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	// ID identifies this connection in the presence registry.
	ID string

	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages, already marshaled.
	send chan []byte

	// UserID is the authenticated identity, uuid.Nil for anonymous
	// connections.
	UserID uuid.UUID

	// rooms holds the project IDs this connection has joined.
	rooms map[uuid.UUID]bool

	// closeOnce ensures the send channel is only closed once
	closeOnce sync.Once

	// mu protects rooms
	mu sync.RWMutex

	logger *slog.Logger
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, logger *slog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		ID:     id,
		Hub:    hub,
		Conn:   conn,
		send:   make(chan []byte, 256),
		UserID: userID,
		rooms:  make(map[uuid.UUID]bool),
		logger: logger.With("conn_id", id),
	}
}

// CloseSend safely closes the send channel exactly once
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *Client) addRoom(projectID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[projectID] = true
}

// JoinedRooms returns a copy of the project IDs this client has joined.
func (c *Client) JoinedRooms() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make([]uuid.UUID, 0, len(c.rooms))
	for projectID := range c.rooms {
		rooms = append(rooms, projectID)
	}
	return rooms
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel. Send close message.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// --- Incoming Message Handling ---

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JoinPayload is the payload for join messages. UserID is optional; an
// authenticated connection already carries its identity and the payload
// value is ignored in that case.
type JoinPayload struct {
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
}

// JoinAck is pushed back to the client after a join attempt.
type JoinAck struct {
	OK    bool   `json:"ok"`
	Room  string `json:"room,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleIncomingMessage processes messages received from the client
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case "join":
		c.handleJoin(msg.Payload)

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

// handleJoin validates the join payload and registers the client with
// the project room. A bad payload is answered with a failure ack; the
// connection stays open.
func (c *Client) handleJoin(payload json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendJoinAck(JoinAck{OK: false, Error: "invalid join payload"})
		return
	}

	projectID, err := uuid.Parse(p.ProjectID)
	if err != nil {
		c.sendJoinAck(JoinAck{OK: false, Error: "projectId must be a valid UUID"})
		return
	}

	userID := c.UserID
	if userID == uuid.Nil && p.UserID != "" {
		// Unauthenticated connections may self-identify in the payload.
		if parsed, err := uuid.Parse(p.UserID); err == nil {
			userID = parsed
		}
	}

	room := c.Hub.joinRoom(c, projectID, userID)
	c.sendJoinAck(JoinAck{OK: true, Room: room})
}

func (c *Client) sendJoinAck(ack JoinAck) {
	message, err := json.Marshal(ServerMessage{Type: "join:ack", Payload: ack})
	if err != nil {
		c.logger.Error("failed to marshal join ack", "error", err)
		return
	}

	select {
	case c.send <- message:
	default:
		// Channel full, skip ack
	}
}

// ServerMessage is the envelope for control messages pushed to clients.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}
