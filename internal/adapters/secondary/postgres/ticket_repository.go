package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// TicketRepository is the secondary adapter for ticket persistence.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// Ensure TicketRepository implements the ports.TicketRepository interface.
var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

// Create persists a new ticket entity.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	const query = `
		INSERT INTO tickets (project_id, title, description, status, priority, author_id, assignee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, project_id, title, description, status, priority, author_id, assignee_id, created_at, updated_at`

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		ticket.ProjectID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AuthorID,
		ticket.AssigneeID,
	)
	return scanTicket(row)
}

// GetByID retrieves a single ticket by ID.
func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const query = `
		SELECT id, project_id, title, description, status, priority, author_id, assignee_id, created_at, updated_at
		FROM tickets
		WHERE id = $1`

	ticket, err := scanTicket(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// ListByProject retrieves all tickets belonging to a project, newest first.
func (r *TicketRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Ticket, error) {
	const query = `
		SELECT id, project_id, title, description, status, priority, author_id, assignee_id, created_at, updated_at
		FROM tickets
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []*domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

// Update persists changes to an existing ticket entity.
func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	const query = `
		UPDATE tickets
		SET title = $2, description = $3, status = $4, priority = $5, assignee_id = $6, updated_at = $7
		WHERE id = $1
		RETURNING id, project_id, title, description, status, priority, author_id, assignee_id, created_at, updated_at`

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.UpdatedAt,
	)

	updated, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return updated, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.ProjectID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AuthorID,
		&ticket.AssigneeID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
