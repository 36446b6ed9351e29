package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// ActivityRepository is the secondary adapter for the append-only
// project activity feed.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// Ensure ActivityRepository implements the ports.ActivityRepository interface.
var _ ports.ActivityRepository = (*ActivityRepository)(nil)

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Create appends an activity entry.
func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	const query = `
		INSERT INTO activities (project_id, ticket_id, actor_id, type, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, project_id, ticket_id, actor_id, type, message, created_at`

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		activity.ProjectID,
		activity.TicketID,
		activity.ActorID,
		activity.Type,
		activity.Message,
	)
	return scanActivity(row)
}

// ListRecent retrieves the newest activity entries for a project.
func (r *ActivityRepository) ListRecent(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.Activity, error) {
	const query = `
		SELECT id, project_id, ticket_id, actor_id, type, message, created_at
		FROM activities
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var activity domain.Activity
	err := row.Scan(
		&activity.ID,
		&activity.ProjectID,
		&activity.TicketID,
		&activity.ActorID,
		&activity.Type,
		&activity.Message,
		&activity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}
