package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
)

func TestUserRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")
	userRepo := NewUserRepository(testPool)

	// 1. Create a new user
	createdUser, err := userRepo.Create(ctx, &domain.User{
		Email: "create.get@example.com",
		Name:  "Create Get",
	})
	require.NoError(t, err, "Failed to create user")
	assert.NotZero(t, createdUser.ID)
	assert.False(t, createdUser.CreatedAt.IsZero())

	// 2. Get the user by email
	foundUser, err := userRepo.GetByEmail(ctx, "create.get@example.com")
	require.NoError(t, err, "Failed to get user by email")
	assert.Equal(t, createdUser.ID, foundUser.ID)
	assert.Equal(t, "Create Get", foundUser.Name)

	// 3. Get the user by ID
	foundUserByID, err := userRepo.GetByID(ctx, createdUser.ID)
	require.NoError(t, err, "Failed to get user by ID")
	assert.Equal(t, createdUser.ID, foundUserByID.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	_, err := userRepo.Create(ctx, &domain.User{Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = userRepo.Create(ctx, &domain.User{Email: "dup@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	_, err := userRepo.GetByEmail(ctx, "nonexistent@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
