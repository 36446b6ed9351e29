package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
)

const MaxTitleLength = 255

// TicketStatus represents a column on the kanban board.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "OPEN"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusDone       TicketStatus = "DONE"
)

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

// ValidStatus reports whether s is a known board column.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Ticket is the core domain entity. Tickets always belong to a project;
// the project ID doubles as the routing key for real-time events.
type Ticket struct {
	ID          uuid.UUID      `json:"id"`
	ProjectID   uuid.UUID      `json:"projectId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	AuthorID    uuid.UUID      `json:"authorId"`
	AssigneeID  *uuid.UUID     `json:"assigneeId,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
}

// NewTicket is a factory function to create a valid new ticket.
func NewTicket(projectID uuid.UUID, title, description string, priority TicketPriority, authorID uuid.UUID) (*Ticket, error) {
	if projectID == uuid.Nil {
		return nil, apperrors.ErrProjectIDRequired
	}
	if title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if len(title) > MaxTitleLength {
		return nil, apperrors.ErrTitleTooLong
	}
	if len(description) > MaxDescriptionLength {
		return nil, apperrors.ErrDescriptionTooLong
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriority(priority) {
		return nil, apperrors.ErrInvalidPriority
	}

	return &Ticket{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      StatusOpen,
		Priority:    priority,
		AuthorID:    authorID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// TicketUpdate describes a partial update from the board UI. Nil fields
// are left untouched.
type TicketUpdate struct {
	Title       *string
	Description *string
	Status      *TicketStatus
	Priority    *TicketPriority
	AssigneeID  *uuid.UUID
}

// Apply mutates the ticket with the provided changes. The board allows
// dragging cards between any two columns, so any status-to-status move
// is legal as long as the target column exists.
func (t *Ticket) Apply(update TicketUpdate) error {
	if update.Title != nil {
		if *update.Title == "" {
			return apperrors.ErrTitleRequired
		}
		if len(*update.Title) > MaxTitleLength {
			return apperrors.ErrTitleTooLong
		}
		t.Title = *update.Title
	}
	if update.Description != nil {
		if len(*update.Description) > MaxDescriptionLength {
			return apperrors.ErrDescriptionTooLong
		}
		t.Description = *update.Description
	}
	if update.Status != nil {
		if !ValidStatus(*update.Status) {
			return apperrors.ErrInvalidStatus
		}
		t.Status = *update.Status
	}
	if update.Priority != nil {
		if !ValidPriority(*update.Priority) {
			return apperrors.ErrInvalidPriority
		}
		t.Priority = *update.Priority
	}
	if update.AssigneeID != nil {
		t.AssigneeID = update.AssigneeID
	}

	now := time.Now().UTC()
	t.UpdatedAt = &now
	return nil
}
