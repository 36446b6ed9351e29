package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// ProjectRepository is the secondary adapter for project and membership
// persistence.
type ProjectRepository struct {
	pool *pgxpool.Pool
	tm   *TransactionManager
}

// Ensure ProjectRepository implements the ports.ProjectRepository interface.
var _ ports.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new project repository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		pool: pool,
		tm:   NewTransactionManager(pool),
	}
}

// Create persists a new project entity.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	const query = `
		INSERT INTO projects (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, owner_id, created_at, updated_at`

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query, project.Name, project.Description, project.OwnerID)
	return scanProject(row)
}

// GetByID retrieves a single project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	const query = `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM projects
		WHERE id = $1`

	project, err := scanProject(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// List retrieves all projects, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	const query = `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Update persists changes to an existing project entity.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	const query = `
		UPDATE projects
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
		RETURNING id, name, description, owner_id, created_at, updated_at`

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query, project.ID, project.Name, project.Description, project.UpdatedAt)

	updated, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a project together with its dependent rows. Activities
// and memberships reference tickets and projects, so deletion order
// matters: activities, then memberships, then tickets, then the project.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.tm.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM activities WHERE project_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM memberships WHERE project_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM tickets WHERE project_id = $1`, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrProjectNotFound
		}
		return nil
	})
}

// AddMember persists a project membership.
func (r *ProjectRepository) AddMember(ctx context.Context, membership *domain.Membership) error {
	const query = `
		INSERT INTO memberships (project_id, user_id, role)
		VALUES ($1, $2, $3)`

	_, err := GetDBTX(ctx, r.pool).Exec(ctx, query, membership.ProjectID, membership.UserID, membership.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// ListMembers resolves a project's memberships to users with delivery
// addresses.
func (r *ProjectRepository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.Member, error) {
	const query = `
		SELECT u.id, u.email, u.name
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.created_at`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.Member{}
	for rows.Next() {
		var member domain.Member
		if err := rows.Scan(&member.UserID, &member.Email, &member.Name); err != nil {
			return nil, err
		}
		members = append(members, &member)
	}
	return members, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}
