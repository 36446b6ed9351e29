package presence

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks which users are currently joined to which project
// rooms, across possibly-multiple simultaneous connections per user.
//
// It is process-local and deliberately transport-agnostic: the WebSocket
// hub reports joins and disconnects by connection ID, and the offline
// notification path reads snapshots. If the service ever runs as several
// instances, each instance only sees its own connections.
type Registry struct {
	mu sync.RWMutex

	// conns maps a connection ID to the user (uuid.Nil for anonymous
	// connections) and the set of project rooms it has joined.
	conns map[string]*connection

	// online maps projectID -> userID -> live connection count. The
	// count keeps a user online while any tab or device is still
	// connected; the presence *set* exposed to callers dedupes it.
	online map[uuid.UUID]map[uuid.UUID]int
}

type connection struct {
	userID uuid.UUID
	rooms  map[uuid.UUID]bool
}

// NewRegistry creates an empty presence registry. One registry is
// constructed per server process and shared by the hub and the
// notification service.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]*connection),
		online: make(map[uuid.UUID]map[uuid.UUID]int),
	}
}

// RegisterJoin records that a connection has joined a project's room.
// A zero userID marks the connection as anonymous: it still belongs to
// the room for broadcast purposes but contributes nothing to presence.
// Joining a room the connection already joined is a no-op.
func (r *Registry) RegisterJoin(connID string, projectID, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connID]
	if !ok {
		conn = &connection{userID: userID, rooms: make(map[uuid.UUID]bool)}
		r.conns[connID] = conn
	}

	// A connection that joined anonymously may identify itself on a
	// later join. The identity applies to the whole connection, so every
	// room it already occupies gets its presence back-filled.
	if conn.userID == uuid.Nil && userID != uuid.Nil {
		conn.userID = userID
		for room := range conn.rooms {
			r.incrementOnline(room, userID)
		}
	}

	if conn.rooms[projectID] {
		return
	}
	conn.rooms[projectID] = true

	if conn.userID == uuid.Nil {
		return
	}
	r.incrementOnline(projectID, conn.userID)
}

// incrementOnline bumps the live connection count for a (project, user)
// pair. Callers must hold the write lock.
func (r *Registry) incrementOnline(projectID, userID uuid.UUID) {
	if r.online[projectID] == nil {
		r.online[projectID] = make(map[uuid.UUID]int)
	}
	r.online[projectID][userID]++
}

// RegisterDisconnect removes a connection and drops its user from each
// affected project's presence set when this was the user's last live
// connection there. Disconnects for unknown connection IDs are silently
// absorbed; they race with transport-level cleanup.
func (r *Registry) RegisterDisconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(r.conns, connID)

	if conn.userID == uuid.Nil {
		return
	}
	for projectID := range conn.rooms {
		users, ok := r.online[projectID]
		if !ok {
			continue
		}
		users[conn.userID]--
		if users[conn.userID] <= 0 {
			delete(users, conn.userID)
		}
		if len(users) == 0 {
			delete(r.online, projectID)
		}
	}
}

// OnlineUsers returns a snapshot of the users currently connected to a
// project's room. The returned map is a copy and safe to use while
// joins and disconnects continue concurrently.
func (r *Registry) OnlineUsers(projectID uuid.UUID) map[uuid.UUID]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[uuid.UUID]bool, len(r.online[projectID]))
	for userID := range r.online[projectID] {
		snapshot[userID] = true
	}
	return snapshot
}

// ConnectionCount returns the number of live connections the registry
// knows about. Exposed for health reporting.
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
