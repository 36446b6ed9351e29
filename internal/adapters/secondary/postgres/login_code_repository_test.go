package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
)

func TestLoginCodeRepository_LatestActiveWins(t *testing.T) {
	ctx := context.Background()
	codeRepo := NewLoginCodeRepository(testPool)

	email := "codes@example.com"
	expiry := time.Now().UTC().Add(domain.LoginCodeTTL)

	first, err := codeRepo.Create(ctx, &domain.LoginCode{
		Email:     email,
		CodeHash:  "hash-one",
		ExpiresAt: expiry,
	})
	require.NoError(t, err)

	second, err := codeRepo.Create(ctx, &domain.LoginCode{
		Email:     email,
		CodeHash:  "hash-two",
		ExpiresAt: expiry,
	})
	require.NoError(t, err)

	active, err := codeRepo.GetLatestActive(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, "hash-two", active.CodeHash)
	assert.NotEqual(t, first.ID, active.ID)
}

func TestLoginCodeRepository_ExpiredCodesIgnored(t *testing.T) {
	ctx := context.Background()
	codeRepo := NewLoginCodeRepository(testPool)

	_, err := codeRepo.Create(ctx, &domain.LoginCode{
		Email:     "expired@example.com",
		CodeHash:  "hash",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = codeRepo.GetLatestActive(ctx, "expired@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidLoginCode)
}

func TestLoginCodeRepository_MarkConsumed(t *testing.T) {
	ctx := context.Background()
	codeRepo := NewLoginCodeRepository(testPool)

	code, err := codeRepo.Create(ctx, &domain.LoginCode{
		Email:     "consume@example.com",
		CodeHash:  "hash",
		ExpiresAt: time.Now().UTC().Add(domain.LoginCodeTTL),
	})
	require.NoError(t, err)

	require.NoError(t, codeRepo.MarkConsumed(ctx, code.ID))

	// Consumed codes no longer resolve, and cannot be consumed twice.
	_, err = codeRepo.GetLatestActive(ctx, "consume@example.com")
	assert.ErrorIs(t, err, errors.ErrInvalidLoginCode)

	err = codeRepo.MarkConsumed(ctx, code.ID)
	assert.ErrorIs(t, err, errors.ErrInvalidLoginCode)
}
