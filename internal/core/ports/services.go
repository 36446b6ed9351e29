package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
)

// AuthService defines the port for passwordless authentication.
type AuthService interface {
	// IssueCode generates a one-time login code for the email and hands
	// it to the mailer. It succeeds even for addresses that have never
	// logged in before.
	IssueCode(ctx context.Context, email string) error
	// VerifyCode checks the code against the most recent unconsumed
	// issue and returns the (possibly newly created) user.
	VerifyCode(ctx context.Context, email, code string) (*domain.User, error)
}

// CreateProjectParams defines the input for creating a project.
type CreateProjectParams struct {
	Name        string
	Description string
	OwnerID     uuid.UUID
}

// UpdateProjectParams defines the input for updating a project.
type UpdateProjectParams struct {
	ProjectID   uuid.UUID
	Name        *string
	Description *string
}

// ProjectService defines the port for project management.
type ProjectService interface {
	CreateProject(ctx context.Context, params CreateProjectParams) (*domain.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	UpdateProject(ctx context.Context, params UpdateProjectParams) (*domain.Project, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
	AddMember(ctx context.Context, projectID, userID uuid.UUID) error
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.Member, error)
}

// CreateTicketParams defines the input for creating a ticket.
type CreateTicketParams struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Priority    domain.TicketPriority
	AuthorID    uuid.UUID
}

// UpdateTicketParams defines the input for mutating a ticket from the board.
type UpdateTicketParams struct {
	TicketID uuid.UUID
	ActorID  uuid.UUID
	Update   domain.TicketUpdate
}

// TicketService defines the core business operations for tickets. Create
// and Update are the mutation trigger points: after the persistence write
// succeeds they broadcast a ticket event to the project room and request
// offline notification, and neither fan-out may fail the mutation.
type TicketService interface {
	CreateTicket(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, params UpdateTicketParams) (*domain.Ticket, error)
	ListProjectTickets(ctx context.Context, projectID uuid.UUID) ([]*domain.Ticket, error)
	// Shutdown waits for in-flight background notification dispatches.
	Shutdown()
}

// ActivityService defines the port for the project activity feed.
type ActivityService interface {
	Log(ctx context.Context, activity *domain.Activity) error
	ListRecent(ctx context.Context, projectID uuid.UUID) ([]*domain.Activity, error)
}

// RoomBroadcaster fans an event out to every connection currently in the
// project's room. Broadcasting to an empty room is a successful no-op.
type RoomBroadcaster interface {
	Broadcast(projectID uuid.UUID, event domain.TicketEvent) error
}

// PresenceTracker exposes the live-presence snapshot the offline
// notification decision is made against.
type PresenceTracker interface {
	OnlineUsers(projectID uuid.UUID) map[uuid.UUID]bool
}

// OfflineNotifier decides which project members are not watching the
// board right now and dispatches the message to them out-of-band.
type OfflineNotifier interface {
	NotifyProjectMembersIfOffline(ctx context.Context, projectID uuid.UUID, message string) error
}

// Mailer is the external delivery collaborator. Retry and backoff are
// its concern, not the caller's.
type Mailer interface {
	Send(ctx context.Context, address, subject, body string) error
}
