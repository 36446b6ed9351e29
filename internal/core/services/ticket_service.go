package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// TicketService implements business logic for ticket management. It is
// the trigger point between a successful persistence write and the two
// downstream fan-outs: the in-process room broadcast and the offline
// notification dispatch. The two are independent; a failure in one never
// blocks the other, and neither failure reaches the mutating client.
type TicketService struct {
	ticketRepo  ports.TicketRepository
	projectRepo ports.ProjectRepository
	activities  ports.ActivityService
	broadcaster ports.RoomBroadcaster
	notifier    ports.OfflineNotifier
	logger      *slog.Logger
	wg          sync.WaitGroup
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service.
func NewTicketService(
	ticketRepo ports.TicketRepository,
	projectRepo ports.ProjectRepository,
	activities ports.ActivityService,
	broadcaster ports.RoomBroadcaster,
	notifier ports.OfflineNotifier,
	logger *slog.Logger,
) *TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		projectRepo: projectRepo,
		activities:  activities,
		broadcaster: broadcaster,
		notifier:    notifier,
		logger:      logger.With("component", "ticket_service"),
	}
}

// CreateTicket handles the use case for adding a new ticket to a board.
func (s *TicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	// The project must exist; a dangling projectId would create an
	// orphaned room key.
	if _, err := s.projectRepo.GetByID(ctx, params.ProjectID); err != nil {
		return nil, err
	}

	ticket, err := domain.NewTicket(params.ProjectID, params.Title, params.Description, params.Priority, params.AuthorID)
	if err != nil {
		return nil, err
	}

	created, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.emitMutation(ctx, domain.TicketCreated, created, params.AuthorID,
		fmt.Sprintf("New ticket: %s", created.Title))

	return created, nil
}

// GetTicket retrieves a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, ticketID)
}

// UpdateTicket applies a partial update from the board.
func (s *TicketService) UpdateTicket(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.Apply(params.Update); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.emitMutation(ctx, domain.TicketUpdated, updated, params.ActorID,
		fmt.Sprintf("Ticket updated: %s", updated.Title))

	return updated, nil
}

// ListProjectTickets returns all tickets on a project's board.
func (s *TicketService) ListProjectTickets(ctx context.Context, projectID uuid.UUID) ([]*domain.Ticket, error) {
	return s.ticketRepo.ListByProject(ctx, projectID)
}

// emitMutation runs the post-persist fan-out for a mutated ticket:
// exactly one room broadcast and exactly one offline notification
// request, plus an activity log entry. The mutation has already
// succeeded, so every failure here is logged and swallowed.
func (s *TicketService) emitMutation(ctx context.Context, kind domain.TicketEventType, ticket *domain.Ticket, actorID uuid.UUID, message string) {
	// Live broadcast: in-process, effectively instantaneous.
	if err := s.broadcaster.Broadcast(ticket.ProjectID, domain.NewTicketEvent(kind, ticket)); err != nil {
		s.logger.Error("ticket event broadcast failed",
			"ticket_id", ticket.ID,
			"project_id", ticket.ProjectID,
			"error", err,
		)
	}

	activityType := domain.ActivityTicketCreated
	if kind == domain.TicketUpdated {
		activityType = domain.ActivityTicketUpdated
	}
	ticketID := ticket.ID
	if err := s.activities.Log(ctx, &domain.Activity{
		ProjectID: ticket.ProjectID,
		TicketID:  &ticketID,
		ActorID:   actorID,
		Type:      activityType,
		Message:   message,
	}); err != nil {
		s.logger.Error("activity log failed",
			"ticket_id", ticket.ID,
			"error", err,
		)
	}

	// Offline notification: may involve outbound email, so it must not
	// hold up the HTTP response. Background context because the request
	// context dies with the response.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		notifyCtx := context.Background()

		if err := s.notifier.NotifyProjectMembersIfOffline(notifyCtx, ticket.ProjectID, message); err != nil {
			s.logger.Error("offline notification failed",
				"ticket_id", ticket.ID,
				"project_id", ticket.ProjectID,
				"error", err,
			)
		}
	}()
}

// Shutdown waits for in-flight notification dispatches to finish.
func (s *TicketService) Shutdown() {
	s.wg.Wait()
}
