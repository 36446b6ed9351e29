package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// LoginCodeLength is the number of digits in an emailed code.
	LoginCodeLength = 6

	// LoginCodeTTL is how long an issued code stays valid.
	LoginCodeTTL = 10 * time.Minute
)

// LoginCode is a one-time login code issued to an email address. Only a
// bcrypt hash of the code is persisted; the cleartext exists just long
// enough to be emailed.
type LoginCode struct {
	ID         int64
	Email      string
	CodeHash   string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the code is past its expiry at the given time.
func (c *LoginCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Consumed reports whether the code has already been used.
func (c *LoginCode) Consumed() bool {
	return c.ConsumedAt != nil
}

// GenerateLoginCode returns a random six-digit code using crypto/rand.
func GenerateLoginCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < LoginCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate login code: %w", err)
	}
	return fmt.Sprintf("%0*d", LoginCodeLength, n), nil
}
