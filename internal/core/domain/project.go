package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
)

const (
	MaxProjectNameLength = 255
	MaxDescriptionLength = 4000
)

// Project is a container for tickets and a broadcast scope for real-time
// updates. Each project has exactly one room on the WebSocket endpoint.
type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// MembershipRole describes a member's relationship to a project.
type MembershipRole string

const (
	RoleOwner  MembershipRole = "OWNER"
	RoleMember MembershipRole = "MEMBER"
)

// Membership is the persisted, long-lived association of a user to a
// project. It is independent of whether the user is currently connected
// to the project's room.
type Membership struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      MembershipRole
	CreatedAt time.Time
}

// Member is a membership resolved to the user's delivery details. It is
// the name-resolution source for offline notifications.
type Member struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// NewProject is a factory function to create a valid new project.
func NewProject(name, description string, ownerID uuid.UUID) (*Project, error) {
	if name == "" {
		return nil, apperrors.ErrProjectNameRequired
	}
	if len(name) > MaxProjectNameLength {
		return nil, apperrors.ErrProjectNameTooLong
	}
	if len(description) > MaxDescriptionLength {
		return nil, apperrors.ErrDescriptionTooLong
	}
	if ownerID == uuid.Nil {
		return nil, apperrors.ErrOwnerRequired
	}

	return &Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Rename updates the project's name and description in place.
func (p *Project) Rename(name, description *string) error {
	if name != nil {
		if *name == "" {
			return apperrors.ErrProjectNameRequired
		}
		if len(*name) > MaxProjectNameLength {
			return apperrors.ErrProjectNameTooLong
		}
		p.Name = *name
	}
	if description != nil {
		if len(*description) > MaxDescriptionLength {
			return apperrors.ErrDescriptionTooLong
		}
		p.Description = *description
	}
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return nil
}
