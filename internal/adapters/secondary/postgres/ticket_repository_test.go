package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
)

func TestTicketRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	ticketRepo := NewTicketRepository(testPool)

	project, owner := mustCreateProject(t, ctx)

	created, err := ticketRepo.Create(ctx, &domain.Ticket{
		ProjectID:   project.ID,
		Title:       "Broken build on main",
		Description: "CI fails on the lint step",
		Status:      domain.StatusOpen,
		Priority:    domain.PriorityHigh,
		AuthorID:    owner.ID,
	})
	require.NoError(t, err, "Failed to create ticket")
	assert.NotZero(t, created.ID)
	assert.Nil(t, created.AssigneeID)
	assert.Nil(t, created.UpdatedAt)

	found, err := ticketRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Broken build on main", found.Title)
	assert.Equal(t, domain.PriorityHigh, found.Priority)

	// Move the ticket across the board and assign it.
	assignee := mustCreateUser(t, ctx)
	now := time.Now().UTC()
	found.Status = domain.StatusInProgress
	found.AssigneeID = &assignee.ID
	found.UpdatedAt = &now

	updated, err := ticketRepo.Update(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, assignee.ID, *updated.AssigneeID)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestTicketRepository_ListByProject(t *testing.T) {
	ctx := context.Background()
	ticketRepo := NewTicketRepository(testPool)

	project, owner := mustCreateProject(t, ctx)
	otherProject, otherOwner := mustCreateProject(t, ctx)

	for _, title := range []string{"first", "second"} {
		_, err := ticketRepo.Create(ctx, &domain.Ticket{
			ProjectID: project.ID,
			Title:     title,
			Status:    domain.StatusOpen,
			Priority:  domain.PriorityMedium,
			AuthorID:  owner.ID,
		})
		require.NoError(t, err)
	}
	_, err := ticketRepo.Create(ctx, &domain.Ticket{
		ProjectID: otherProject.ID,
		Title:     "elsewhere",
		Status:    domain.StatusOpen,
		Priority:  domain.PriorityMedium,
		AuthorID:  otherOwner.ID,
	})
	require.NoError(t, err)

	tickets, err := ticketRepo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for _, ticket := range tickets {
		assert.Equal(t, project.ID, ticket.ProjectID)
	}
}

func TestTicketRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	ticketRepo := NewTicketRepository(testPool)

	_, err := ticketRepo.GetByID(ctx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTicketNotFound)
}
