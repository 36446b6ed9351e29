package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/presence"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient builds a client without a live websocket connection. The
// hub never touches the connection directly, so nil is fine here.
func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	id := uuid.NewString()
	return &Client{
		ID:     id,
		Hub:    hub,
		send:   make(chan []byte, 16),
		UserID: userID,
		rooms:  make(map[uuid.UUID]bool),
		logger: testLogger(),
	}
}

func receiveMessage(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func sampleEvent(projectID uuid.UUID) domain.TicketEvent {
	ticket := &domain.Ticket{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     "Flaky deploy pipeline",
		Status:    domain.StatusOpen,
		Priority:  domain.PriorityHigh,
		AuthorID:  uuid.New(),
	}
	return domain.NewTicketEvent(domain.TicketCreated, ticket)
}

func TestHub_JoinRoom_AcksWithRoomKey(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())

	userID := uuid.New()
	projectID := uuid.New()
	client := newTestClient(hub, userID)

	payload, _ := json.Marshal(JoinPayload{ProjectID: projectID.String()})
	client.handleJoin(payload)

	var msg ServerMessage
	require.NoError(t, json.Unmarshal(receiveMessage(t, client), &msg))
	assert.Equal(t, "join:ack", msg.Type)

	ack := msg.Payload.(map[string]any)
	assert.Equal(t, true, ack["ok"])
	assert.Equal(t, "project:"+projectID.String(), ack["room"])

	assert.Equal(t, 1, hub.ClientsInRoom(projectID))
	assert.True(t, registry.OnlineUsers(projectID)[userID])
}

func TestHub_JoinRoom_MalformedPayloadKeepsConnection(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())

	projectID := uuid.New()
	client := newTestClient(hub, uuid.New())

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `"join me"`},
		{name: "missing project id", payload: `{}`},
		{name: "bad project id", payload: `{"projectId":"not-a-uuid"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client.handleJoin(json.RawMessage(tt.payload))

			var msg ServerMessage
			require.NoError(t, json.Unmarshal(receiveMessage(t, client), &msg))
			assert.Equal(t, "join:ack", msg.Type)

			ack := msg.Payload.(map[string]any)
			assert.Equal(t, false, ack["ok"])
			assert.NotEmpty(t, ack["error"])
		})
	}

	// The connection survives a bad join and can still join properly.
	payload, _ := json.Marshal(JoinPayload{ProjectID: projectID.String()})
	client.handleJoin(payload)

	var msg ServerMessage
	require.NoError(t, json.Unmarshal(receiveMessage(t, client), &msg))
	ack := msg.Payload.(map[string]any)
	assert.Equal(t, true, ack["ok"])
}

func TestHub_JoinRoom_AnonymousSelfIdentifies(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())

	projectID := uuid.New()
	userID := uuid.New()
	client := newTestClient(hub, uuid.Nil)

	payload, _ := json.Marshal(JoinPayload{ProjectID: projectID.String(), UserID: userID.String()})
	client.handleJoin(payload)

	receiveMessage(t, client) // ack
	assert.True(t, registry.OnlineUsers(projectID)[userID])
}

func TestHub_JoinRoom_AuthenticatedIdentityWins(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())

	projectID := uuid.New()
	authenticated := uuid.New()
	spoofed := uuid.New()
	client := newTestClient(hub, authenticated)

	payload, _ := json.Marshal(JoinPayload{ProjectID: projectID.String(), UserID: spoofed.String()})
	client.handleJoin(payload)

	receiveMessage(t, client) // ack
	online := registry.OnlineUsers(projectID)
	assert.True(t, online[authenticated])
	assert.False(t, online[spoofed])
}

func TestHub_Broadcast_FansOutToAllMembersIncludingSender(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())

	projectID := uuid.New()
	sender := newTestClient(hub, uuid.New())
	others := []*Client{
		newTestClient(hub, uuid.New()),
		newTestClient(hub, uuid.New()),
	}

	hub.joinRoom(sender, projectID, sender.UserID)
	for _, c := range others {
		hub.joinRoom(c, projectID, c.UserID)
	}

	event := sampleEvent(projectID)
	require.NoError(t, hub.Broadcast(projectID, event))
	hub.broadcastToRoom(<-hub.broadcast)

	expected, _ := json.Marshal(event)
	for _, c := range append(others, sender) {
		assert.JSONEq(t, string(expected), string(receiveMessage(t, c)))
	}
}

func TestHub_Broadcast_EmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub(presence.NewRegistry(), testLogger())

	require.NoError(t, hub.Broadcast(uuid.New(), sampleEvent(uuid.New())))
	hub.broadcastToRoom(<-hub.broadcast)
}

func TestHub_Broadcast_OtherRoomsDoNotReceive(t *testing.T) {
	hub := NewHub(presence.NewRegistry(), testLogger())

	projectA := uuid.New()
	projectB := uuid.New()

	inA := newTestClient(hub, uuid.New())
	inB := newTestClient(hub, uuid.New())
	hub.joinRoom(inA, projectA, inA.UserID)
	hub.joinRoom(inB, projectB, inB.UserID)

	require.NoError(t, hub.Broadcast(projectA, sampleEvent(projectA)))
	hub.broadcastToRoom(<-hub.broadcast)

	receiveMessage(t, inA)
	assertNoMessage(t, inB)
}

func TestHub_Broadcast_FullBufferMemberDoesNotStallHub(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())
	go hub.Run()

	projectID := uuid.New()
	healthy := newTestClient(hub, uuid.New())
	stuck := newTestClient(hub, uuid.New())
	// An unbuffered send channel with no reader models a client whose
	// write pump has wedged: any queued delivery would block forever.
	stuck.send = make(chan []byte)

	hub.joinRoom(healthy, projectID, healthy.UserID)
	hub.joinRoom(stuck, projectID, stuck.UserID)

	require.NoError(t, hub.Broadcast(projectID, sampleEvent(projectID)))
	receiveMessage(t, healthy)

	// The hub must keep serving the room after dropping the wedged
	// member; a stalled event loop would time out here.
	require.NoError(t, hub.Broadcast(projectID, sampleEvent(projectID)))
	receiveMessage(t, healthy)

	assert.Equal(t, 1, hub.ClientsInRoom(projectID))
	online := registry.OnlineUsers(projectID)
	assert.True(t, online[healthy.UserID])
	assert.False(t, online[stuck.UserID])
}

func TestHub_Unregister_ClearsRoomsAndPresence(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())

	projectID := uuid.New()
	userID := uuid.New()
	client := newTestClient(hub, userID)
	hub.joinRoom(client, projectID, userID)

	require.Equal(t, 1, hub.ClientsInRoom(projectID))

	hub.unregisterClient(client)

	assert.Equal(t, 0, hub.ClientsInRoom(projectID))
	assert.Equal(t, 0, hub.RoomCount())
	assert.Empty(t, registry.OnlineUsers(projectID))
}

func TestHub_Unregister_SecondTabKeepsUserOnline(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())

	projectID := uuid.New()
	userID := uuid.New()
	tab1 := newTestClient(hub, userID)
	tab2 := newTestClient(hub, userID)
	hub.joinRoom(tab1, projectID, userID)
	hub.joinRoom(tab2, projectID, userID)

	hub.unregisterClient(tab1)

	assert.True(t, registry.OnlineUsers(projectID)[userID])
	assert.Equal(t, 1, hub.ClientsInRoom(projectID))
}

func TestHub_Run_DeliversBroadcasts(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, testLogger())
	go hub.Run()

	projectID := uuid.New()
	client := newTestClient(hub, uuid.New())
	hub.joinRoom(client, projectID, client.UserID)

	event := sampleEvent(projectID)
	require.NoError(t, hub.Broadcast(projectID, event))

	expected, _ := json.Marshal(event)
	assert.JSONEq(t, string(expected), string(receiveMessage(t, client)))
}
