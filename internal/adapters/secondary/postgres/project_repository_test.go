package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
)

func TestProjectRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	projectRepo := NewProjectRepository(testPool)

	project, _ := mustCreateProject(t, ctx)

	found, err := projectRepo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Project", found.Name)
	assert.Nil(t, found.UpdatedAt)

	newName := "Renamed Project"
	require.NoError(t, found.Rename(&newName, nil))

	updated, err := projectRepo.Update(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Project", updated.Name)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestProjectRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	projectRepo := NewProjectRepository(testPool)

	_, err := projectRepo.GetByID(ctx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}

func TestProjectRepository_Members(t *testing.T) {
	ctx := context.Background()
	projectRepo := NewProjectRepository(testPool)

	project, owner := mustCreateProject(t, ctx)
	member := mustCreateUser(t, ctx)

	require.NoError(t, projectRepo.AddMember(ctx, &domain.Membership{
		ProjectID: project.ID,
		UserID:    owner.ID,
		Role:      domain.RoleOwner,
	}))
	require.NoError(t, projectRepo.AddMember(ctx, &domain.Membership{
		ProjectID: project.ID,
		UserID:    member.ID,
		Role:      domain.RoleMember,
	}))

	// Adding the same member twice is a conflict.
	err := projectRepo.AddMember(ctx, &domain.Membership{
		ProjectID: project.ID,
		UserID:    member.ID,
		Role:      domain.RoleMember,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyMember)

	members, err := projectRepo.ListMembers(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, owner.ID, members[0].UserID)
	assert.Equal(t, member.ID, members[1].UserID)
	assert.NotEmpty(t, members[0].Email)
}

func TestProjectRepository_Delete_Cascades(t *testing.T) {
	ctx := context.Background()
	projectRepo := NewProjectRepository(testPool)
	ticketRepo := NewTicketRepository(testPool)
	activityRepo := NewActivityRepository(testPool)

	project, owner := mustCreateProject(t, ctx)

	require.NoError(t, projectRepo.AddMember(ctx, &domain.Membership{
		ProjectID: project.ID,
		UserID:    owner.ID,
		Role:      domain.RoleOwner,
	}))

	ticket, err := ticketRepo.Create(ctx, &domain.Ticket{
		ProjectID: project.ID,
		Title:     "Doomed ticket",
		Status:    domain.StatusOpen,
		Priority:  domain.PriorityLow,
		AuthorID:  owner.ID,
	})
	require.NoError(t, err)

	_, err = activityRepo.Create(ctx, &domain.Activity{
		ProjectID: project.ID,
		TicketID:  &ticket.ID,
		ActorID:   owner.ID,
		Type:      domain.ActivityTicketCreated,
		Message:   "created Doomed ticket",
	})
	require.NoError(t, err)

	require.NoError(t, projectRepo.Delete(ctx, project.ID))

	_, err = projectRepo.GetByID(ctx, project.ID)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)

	_, err = ticketRepo.GetByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, errors.ErrTicketNotFound)

	members, err := projectRepo.ListMembers(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	activities, err := activityRepo.ListRecent(ctx, project.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestProjectRepository_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	projectRepo := NewProjectRepository(testPool)

	err := projectRepo.Delete(ctx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}
