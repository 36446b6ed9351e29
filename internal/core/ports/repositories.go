package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProjectRepository persists projects and their memberships.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) (*domain.Project, error)
	// Delete removes the project together with its tickets, memberships
	// and activities in a single transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, membership *domain.Membership) error
	// ListMembers resolves the project's memberships to users with
	// delivery addresses.
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.Member, error)
}

// TicketRepository persists tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
}

// ActivityRepository persists the append-only project activity feed.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	ListRecent(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.Activity, error)
}

// LoginCodeRepository persists hashed one-time login codes.
type LoginCodeRepository interface {
	Create(ctx context.Context, code *domain.LoginCode) (*domain.LoginCode, error)
	// GetLatestActive returns the most recently issued, unconsumed,
	// unexpired code for the email, or ErrInvalidLoginCode.
	GetLatestActive(ctx context.Context, email string) (*domain.LoginCode, error)
	MarkConsumed(ctx context.Context, id int64) error
}
