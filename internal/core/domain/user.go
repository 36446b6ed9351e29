package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
)

const (
	MaxEmailLength = 255
	MaxNameLength  = 255
)

// User is an account created implicitly on first successful login.
// Authentication is passwordless, so there is no credential material here.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}

// NewUser is a factory function to create a valid new user.
func NewUser(email, name string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if len(email) > MaxEmailLength {
		return nil, apperrors.ErrEmailInvalid
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.ErrEmailInvalid
	}
	if len(name) > MaxNameLength {
		return nil, apperrors.ErrNameTooLong
	}

	return &User{
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NormalizeEmail lowercases and trims an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
