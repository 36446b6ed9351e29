package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/mocks"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type projectFixture struct {
	projectRepo *mocks.MockProjectRepository
	userRepo    *mocks.MockUserRepository
	svc         *services.ProjectService
}

func newProjectFixture() *projectFixture {
	f := &projectFixture{
		projectRepo: mocks.NewMockProjectRepository(),
		userRepo:    mocks.NewMockUserRepository(),
	}
	f.svc = services.NewProjectService(f.projectRepo, f.userRepo, testLogger())
	return f
}

func TestProjectService_CreateProject(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("creates the project with the owner as first member", func(t *testing.T) {
		f := newProjectFixture()

		created := &domain.Project{ID: uuid.New(), Name: "Launch", OwnerID: ownerID}
		f.projectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Project")).
			Return(created, nil)
		f.projectRepo.On("AddMember", ctx, mock.MatchedBy(func(m *domain.Membership) bool {
			return m.ProjectID == created.ID && m.UserID == ownerID && m.Role == domain.RoleOwner
		})).Return(nil)

		project, err := f.svc.CreateProject(ctx, ports.CreateProjectParams{
			Name:    "Launch",
			OwnerID: ownerID,
		})

		require.NoError(t, err)
		assert.Equal(t, created.ID, project.ID)
		f.projectRepo.AssertExpectations(t)
	})

	t.Run("owner membership failure does not undo the project", func(t *testing.T) {
		f := newProjectFixture()

		created := &domain.Project{ID: uuid.New(), Name: "Launch", OwnerID: ownerID}
		f.projectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Project")).
			Return(created, nil)
		f.projectRepo.On("AddMember", ctx, mock.AnythingOfType("*domain.Membership")).
			Return(assert.AnError)

		project, err := f.svc.CreateProject(ctx, ports.CreateProjectParams{
			Name:    "Launch",
			OwnerID: ownerID,
		})

		require.NoError(t, err)
		assert.Equal(t, created.ID, project.ID)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		f := newProjectFixture()

		project, err := f.svc.CreateProject(ctx, ports.CreateProjectParams{
			Name:    "",
			OwnerID: ownerID,
		})

		assert.Nil(t, project)
		assert.ErrorIs(t, err, apperrors.ErrProjectNameRequired)
		f.projectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProjectService_UpdateProject(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("renames the project", func(t *testing.T) {
		f := newProjectFixture()

		existing := &domain.Project{ID: projectID, Name: "Old", OwnerID: uuid.New()}
		f.projectRepo.On("GetByID", ctx, projectID).Return(existing, nil)
		f.projectRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Project) bool {
			return p.Name == "New"
		})).Return(&domain.Project{ID: projectID, Name: "New"}, nil)

		name := "New"
		project, err := f.svc.UpdateProject(ctx, ports.UpdateProjectParams{
			ProjectID: projectID,
			Name:      &name,
		})

		require.NoError(t, err)
		assert.Equal(t, "New", project.Name)
	})

	t.Run("missing project propagates not found", func(t *testing.T) {
		f := newProjectFixture()

		f.projectRepo.On("GetByID", ctx, projectID).
			Return(nil, apperrors.ErrProjectNotFound)

		project, err := f.svc.UpdateProject(ctx, ports.UpdateProjectParams{ProjectID: projectID})

		assert.Nil(t, project)
		assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
	})
}

func TestProjectService_DeleteProject(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("deletes an existing project", func(t *testing.T) {
		f := newProjectFixture()

		f.projectRepo.On("GetByID", ctx, projectID).
			Return(&domain.Project{ID: projectID}, nil)
		f.projectRepo.On("Delete", ctx, projectID).Return(nil)

		require.NoError(t, f.svc.DeleteProject(ctx, projectID))
		f.projectRepo.AssertExpectations(t)
	})

	t.Run("missing project propagates not found", func(t *testing.T) {
		f := newProjectFixture()

		f.projectRepo.On("GetByID", ctx, projectID).
			Return(nil, apperrors.ErrProjectNotFound)

		err := f.svc.DeleteProject(ctx, projectID)

		assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
		f.projectRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestProjectService_AddMember(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	userID := uuid.New()

	t.Run("adds an existing user as a member", func(t *testing.T) {
		f := newProjectFixture()

		f.projectRepo.On("GetByID", ctx, projectID).
			Return(&domain.Project{ID: projectID}, nil)
		f.userRepo.On("GetByID", ctx, userID).
			Return(&domain.User{ID: userID}, nil)
		f.projectRepo.On("AddMember", ctx, mock.MatchedBy(func(m *domain.Membership) bool {
			return m.ProjectID == projectID && m.UserID == userID && m.Role == domain.RoleMember
		})).Return(nil)

		require.NoError(t, f.svc.AddMember(ctx, projectID, userID))
		f.projectRepo.AssertExpectations(t)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		f := newProjectFixture()

		f.projectRepo.On("GetByID", ctx, projectID).
			Return(&domain.Project{ID: projectID}, nil)
		f.userRepo.On("GetByID", ctx, userID).
			Return(nil, apperrors.ErrUserNotFound)

		err := f.svc.AddMember(ctx, projectID, userID)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		f.projectRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
	})

	t.Run("duplicate membership surfaces the conflict", func(t *testing.T) {
		f := newProjectFixture()

		f.projectRepo.On("GetByID", ctx, projectID).
			Return(&domain.Project{ID: projectID}, nil)
		f.userRepo.On("GetByID", ctx, userID).
			Return(&domain.User{ID: userID}, nil)
		f.projectRepo.On("AddMember", ctx, mock.AnythingOfType("*domain.Membership")).
			Return(apperrors.ErrAlreadyMember)

		err := f.svc.AddMember(ctx, projectID, userID)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
	})
}
