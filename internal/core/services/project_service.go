package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// ProjectService implements project management. Projects are the unit of
// collaboration: each one has an owner, a membership list (the offline
// notification roster) and a broadcast room.
type ProjectService struct {
	projectRepo ports.ProjectRepository
	userRepo    ports.UserRepository
	logger      *slog.Logger
}

var _ ports.ProjectService = (*ProjectService)(nil)

// NewProjectService creates a new project service.
func NewProjectService(projectRepo ports.ProjectRepository, userRepo ports.UserRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		logger:      logger.With("component", "project_service"),
	}
}

// CreateProject creates a project and records the creator as its owner
// member so they appear in the notification roster from day one.
func (s *ProjectService) CreateProject(ctx context.Context, params ports.CreateProjectParams) (*domain.Project, error) {
	project, err := domain.NewProject(params.Name, params.Description, params.OwnerID)
	if err != nil {
		return nil, err
	}

	created, err := s.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.AddMember(ctx, &domain.Membership{
		ProjectID: created.ID,
		UserID:    params.OwnerID,
		Role:      domain.RoleOwner,
	}); err != nil {
		// The project exists either way; the owner just won't receive
		// offline notifications until re-added.
		s.logger.Error("failed to add owner membership",
			"project_id", created.ID,
			"user_id", params.OwnerID,
			"error", err,
		)
	}

	return created, nil
}

// GetProject retrieves a single project.
func (s *ProjectService) GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, projectID)
}

// ListProjects returns all projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projectRepo.List(ctx)
}

// UpdateProject applies a partial update.
func (s *ProjectService) UpdateProject(ctx context.Context, params ports.UpdateProjectParams) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := project.Rename(params.Name, params.Description); err != nil {
		return nil, err
	}

	return s.projectRepo.Update(ctx, project)
}

// DeleteProject removes the project and all dependent rows.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, projectID)
}

// AddMember adds an existing user to the project's membership list.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID uuid.UUID) error {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.projectRepo.AddMember(ctx, &domain.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      domain.RoleMember,
	})
}

// ListMembers resolves the project's membership roster.
func (s *ProjectService) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.Member, error) {
	return s.projectRepo.ListMembers(ctx, projectID)
}
