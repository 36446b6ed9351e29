package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// AuthService implements the passwordless login flow: a six-digit code
// is emailed to the address, stored only as a bcrypt hash, and exchanged
// for a session within its TTL. Accounts are created implicitly on the
// first successful verification.
type AuthService struct {
	userRepo ports.UserRepository
	codeRepo ports.LoginCodeRepository
	mailer   ports.Mailer
	logger   *slog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo ports.UserRepository,
	codeRepo ports.LoginCodeRepository,
	mailer ports.Mailer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codeRepo: codeRepo,
		mailer:   mailer,
		logger:   logger.With("component", "auth_service"),
	}
}

// IssueCode generates and emails a one-time login code.
func (s *AuthService) IssueCode(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return apperrors.ErrEmailRequired
	}

	code, err := domain.GenerateLoginCode()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash login code: %w", err)
	}

	if _, err := s.codeRepo.Create(ctx, &domain.LoginCode{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().UTC().Add(domain.LoginCodeTTL),
	}); err != nil {
		return err
	}

	subject := "Your login code"
	body := fmt.Sprintf("Your login code is %s. It expires in %d minutes.", code, int(domain.LoginCodeTTL.Minutes()))
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		return err
	}

	s.logger.Info("login code issued", "email", email)
	return nil
}

// VerifyCode exchanges a code for the user account, creating the account
// on first login. Only the most recent unconsumed code counts.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)

	stored, err := s.codeRepo.GetLatestActive(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(code)); err != nil {
		return nil, apperrors.ErrInvalidLoginCode
	}

	if err := s.codeRepo.MarkConsumed(ctx, stored.ID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		newUser, err := domain.NewUser(email, "")
		if err != nil {
			return nil, err
		}
		user, err = s.userRepo.Create(ctx, newUser)
		if err != nil {
			return nil, err
		}
		s.logger.Info("user created on first login", "user_id", user.ID)
	} else if err != nil {
		return nil, err
	}

	return user, nil
}
