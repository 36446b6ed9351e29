package domain

import "github.com/google/uuid"

// TicketEventType is the kind of mutation that produced an event.
type TicketEventType string

const (
	TicketCreated TicketEventType = "created"
	TicketUpdated TicketEventType = "updated"
)

// TicketEvent is the payload broadcast to a project room after a ticket
// create or update. It is fire-and-forget: never persisted, it exists
// only for the duration of the broadcast call.
type TicketEvent struct {
	Type   TicketEventType `json:"type"`
	Ticket *Ticket         `json:"ticket"`
}

// NewTicketEvent builds the broadcast payload for a mutated ticket.
func NewTicketEvent(kind TicketEventType, ticket *Ticket) TicketEvent {
	return TicketEvent{Type: kind, Ticket: ticket}
}

// RoomKey derives the broadcast room name for a project. The "project:"
// namespace keeps room traffic distinct from any other channel traffic
// on the same endpoint.
func RoomKey(projectID uuid.UUID) string {
	return "project:" + projectID.String()
}
