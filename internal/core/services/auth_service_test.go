package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/mocks"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	userRepo *mocks.MockUserRepository
	codeRepo *mocks.MockLoginCodeRepository
	mailer   *mocks.MockMailer
	svc      *services.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo: mocks.NewMockUserRepository(),
		codeRepo: mocks.NewMockLoginCodeRepository(),
		mailer:   mocks.NewMockMailer(),
	}
	f.svc = services.NewAuthService(f.userRepo, f.codeRepo, f.mailer, testLogger())
	return f
}

func mustHashCode(t *testing.T, code string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_IssueCode(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hash and mails the plain code", func(t *testing.T) {
		f := newAuthFixture()

		var stored *domain.LoginCode
		f.codeRepo.On("Create", ctx, mock.AnythingOfType("*domain.LoginCode")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*domain.LoginCode)
			}).
			Return(&domain.LoginCode{ID: 1}, nil)

		var mailedBody string
		f.mailer.On("Send", ctx, "user@example.com", "Your login code", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				mailedBody = args.Get(3).(string)
			}).
			Return(nil)

		err := f.svc.IssueCode(ctx, "  User@Example.com ")

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "user@example.com", stored.Email)
		assert.WithinDuration(t, time.Now().UTC().Add(domain.LoginCodeTTL), stored.ExpiresAt, 5*time.Second)

		// The stored hash must verify against the code that went out in
		// the mail, and the plain code must never be persisted.
		code := extractCode(t, mailedBody)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(code)))
		assert.NotContains(t, stored.CodeHash, code)
	})

	t.Run("blank email is rejected", func(t *testing.T) {
		f := newAuthFixture()

		err := f.svc.IssueCode(ctx, "   ")

		assert.ErrorIs(t, err, apperrors.ErrEmailRequired)
		f.codeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("mailer failure propagates", func(t *testing.T) {
		f := newAuthFixture()

		f.codeRepo.On("Create", ctx, mock.AnythingOfType("*domain.LoginCode")).
			Return(&domain.LoginCode{ID: 1}, nil)
		f.mailer.On("Send", ctx, "user@example.com", mock.Anything, mock.Anything).
			Return(assert.AnError)

		err := f.svc.IssueCode(ctx, "user@example.com")

		assert.ErrorIs(t, err, assert.AnError)
	})
}

// extractCode pulls the six-digit code out of the issued mail body.
func extractCode(t *testing.T, body string) string {
	t.Helper()
	for _, word := range strings.Fields(body) {
		word = strings.TrimSuffix(word, ".")
		if len(word) == domain.LoginCodeLength && strings.IndexFunc(word, func(r rune) bool {
			return r < '0' || r > '9'
		}) == -1 {
			return word
		}
	}
	t.Fatalf("no login code found in mail body: %q", body)
	return ""
}

func TestAuthService_VerifyCode(t *testing.T) {
	ctx := context.Background()
	email := "user@example.com"

	t.Run("exchanges a valid code for the existing user", func(t *testing.T) {
		f := newAuthFixture()

		user := &domain.User{ID: uuid.New(), Email: email}
		f.codeRepo.On("GetLatestActive", ctx, email).
			Return(&domain.LoginCode{ID: 7, Email: email, CodeHash: mustHashCode(t, "123456")}, nil)
		f.codeRepo.On("MarkConsumed", ctx, int64(7)).Return(nil)
		f.userRepo.On("GetByEmail", ctx, email).Return(user, nil)

		got, err := f.svc.VerifyCode(ctx, "User@Example.COM", "123456")

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		f.codeRepo.AssertExpectations(t)
	})

	t.Run("creates the account on first login", func(t *testing.T) {
		f := newAuthFixture()

		created := &domain.User{ID: uuid.New(), Email: email}
		f.codeRepo.On("GetLatestActive", ctx, email).
			Return(&domain.LoginCode{ID: 8, Email: email, CodeHash: mustHashCode(t, "654321")}, nil)
		f.codeRepo.On("MarkConsumed", ctx, int64(8)).Return(nil)
		f.userRepo.On("GetByEmail", ctx, email).Return(nil, apperrors.ErrUserNotFound)
		f.userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(created, nil)

		got, err := f.svc.VerifyCode(ctx, email, "654321")

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("wrong code leaves the stored code unconsumed", func(t *testing.T) {
		f := newAuthFixture()

		f.codeRepo.On("GetLatestActive", ctx, email).
			Return(&domain.LoginCode{ID: 9, Email: email, CodeHash: mustHashCode(t, "123456")}, nil)

		got, err := f.svc.VerifyCode(ctx, email, "000000")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrInvalidLoginCode)
		f.codeRepo.AssertNotCalled(t, "MarkConsumed", mock.Anything, mock.Anything)
		f.userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("no active code maps to the same failure", func(t *testing.T) {
		f := newAuthFixture()

		f.codeRepo.On("GetLatestActive", ctx, email).
			Return(nil, apperrors.ErrInvalidLoginCode)

		got, err := f.svc.VerifyCode(ctx, email, "123456")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrInvalidLoginCode)
	})
}
