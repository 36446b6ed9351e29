package presence_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/presence"
)

func TestRegistry_JoinAndDisconnect(t *testing.T) {
	projectID := uuid.New()
	userID := uuid.New()

	t.Run("join adds user to presence set", func(t *testing.T) {
		reg := presence.NewRegistry()

		reg.RegisterJoin("conn-1", projectID, userID)

		online := reg.OnlineUsers(projectID)
		assert.True(t, online[userID])
		assert.Len(t, online, 1)
	})

	t.Run("disconnect removes user", func(t *testing.T) {
		reg := presence.NewRegistry()

		reg.RegisterJoin("conn-1", projectID, userID)
		reg.RegisterDisconnect("conn-1")

		assert.Empty(t, reg.OnlineUsers(projectID))
	})

	t.Run("anonymous join tracks no presence", func(t *testing.T) {
		reg := presence.NewRegistry()

		reg.RegisterJoin("conn-1", projectID, uuid.Nil)

		assert.Empty(t, reg.OnlineUsers(projectID))
	})

	t.Run("unknown project returns empty set", func(t *testing.T) {
		reg := presence.NewRegistry()

		assert.Empty(t, reg.OnlineUsers(uuid.New()))
	})

	t.Run("disconnect of unknown connection is a no-op", func(t *testing.T) {
		reg := presence.NewRegistry()

		reg.RegisterJoin("conn-1", projectID, userID)
		reg.RegisterDisconnect("never-registered")

		assert.True(t, reg.OnlineUsers(projectID)[userID])
	})
}

func TestRegistry_MultipleConnections(t *testing.T) {
	projectID := uuid.New()
	userID := uuid.New()

	t.Run("user stays online while one tab remains", func(t *testing.T) {
		reg := presence.NewRegistry()

		reg.RegisterJoin("tab-1", projectID, userID)
		reg.RegisterJoin("tab-2", projectID, userID)

		reg.RegisterDisconnect("tab-1")
		assert.True(t, reg.OnlineUsers(projectID)[userID], "user must stay online while another tab is connected")

		reg.RegisterDisconnect("tab-2")
		assert.Empty(t, reg.OnlineUsers(projectID), "user must go offline after last tab disconnects")
	})

	t.Run("presence set dedupes multiple connections", func(t *testing.T) {
		reg := presence.NewRegistry()

		reg.RegisterJoin("tab-1", projectID, userID)
		reg.RegisterJoin("tab-2", projectID, userID)
		reg.RegisterJoin("tab-3", projectID, userID)

		assert.Len(t, reg.OnlineUsers(projectID), 1)
	})

	t.Run("one connection joined to several rooms", func(t *testing.T) {
		reg := presence.NewRegistry()
		otherProject := uuid.New()

		reg.RegisterJoin("conn-1", projectID, userID)
		reg.RegisterJoin("conn-1", otherProject, userID)

		assert.True(t, reg.OnlineUsers(projectID)[userID])
		assert.True(t, reg.OnlineUsers(otherProject)[userID])

		reg.RegisterDisconnect("conn-1")
		assert.Empty(t, reg.OnlineUsers(projectID))
		assert.Empty(t, reg.OnlineUsers(otherProject))
	})
}

func TestRegistry_AnonymousConnectionIdentifiesLater(t *testing.T) {
	userID := uuid.New()

	t.Run("identified re-join of the same room goes online", func(t *testing.T) {
		reg := presence.NewRegistry()
		projectID := uuid.New()

		reg.RegisterJoin("conn-1", projectID, uuid.Nil)
		assert.Empty(t, reg.OnlineUsers(projectID))

		reg.RegisterJoin("conn-1", projectID, userID)
		assert.True(t, reg.OnlineUsers(projectID)[userID], "user must be online once the connection identifies itself")

		// The late identity must not inflate the reference count.
		reg.RegisterDisconnect("conn-1")
		assert.Empty(t, reg.OnlineUsers(projectID))
	})

	t.Run("identity back-fills rooms joined while anonymous", func(t *testing.T) {
		reg := presence.NewRegistry()
		roomA := uuid.New()
		roomB := uuid.New()

		reg.RegisterJoin("conn-1", roomA, uuid.Nil)
		reg.RegisterJoin("conn-1", roomB, userID)

		assert.True(t, reg.OnlineUsers(roomA)[userID], "identity applies to every room the connection occupies")
		assert.True(t, reg.OnlineUsers(roomB)[userID])

		reg.RegisterDisconnect("conn-1")
		assert.Empty(t, reg.OnlineUsers(roomA))
		assert.Empty(t, reg.OnlineUsers(roomB))
	})
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	reg := presence.NewRegistry()
	projectID := uuid.New()
	userID := uuid.New()

	reg.RegisterJoin("conn-1", projectID, userID)
	reg.RegisterJoin("conn-1", projectID, userID)
	reg.RegisterJoin("conn-1", projectID, userID)

	assert.Len(t, reg.OnlineUsers(projectID), 1)

	// Repeated joins must not inflate the reference count: a single
	// disconnect still takes the user offline.
	reg.RegisterDisconnect("conn-1")
	assert.Empty(t, reg.OnlineUsers(projectID))
}

func TestRegistry_NoStaleEntries(t *testing.T) {
	// For any sequence of joins and disconnects, the presence set never
	// contains a user with zero live connections.
	reg := presence.NewRegistry()
	projectID := uuid.New()

	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i := 0; i < 10; i++ {
		connID := fmt.Sprintf("conn-%d", i)
		reg.RegisterJoin(connID, projectID, users[i%3])
	}
	for i := 0; i < 10; i++ {
		reg.RegisterDisconnect(fmt.Sprintf("conn-%d", i))
	}

	assert.Empty(t, reg.OnlineUsers(projectID))
	assert.Zero(t, reg.ConnectionCount())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := presence.NewRegistry()
	projectID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			reg.RegisterJoin(connID, projectID, uuid.New())
			reg.OnlineUsers(projectID)
			reg.RegisterDisconnect(connID)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, reg.OnlineUsers(projectID))
}
