package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies a board activity entry.
type ActivityType string

const (
	ActivityTicketCreated ActivityType = "ticket:create"
	ActivityTicketUpdated ActivityType = "ticket:update"
)

// Activity is an append-only audit entry for a project. The board's
// activity feed shows the most recent entries per project.
type Activity struct {
	ID        int64
	ProjectID uuid.UUID
	TicketID  *uuid.UUID
	ActorID   uuid.UUID
	Type      ActivityType
	Message   string
	CreatedAt time.Time
}
