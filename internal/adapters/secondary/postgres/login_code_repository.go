package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	apperrors "github.com/sharmaasahill/ticket-dashboard/internal/core/errors"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// LoginCodeRepository is the secondary adapter for hashed one-time login
// codes.
type LoginCodeRepository struct {
	pool *pgxpool.Pool
}

// Ensure LoginCodeRepository implements the ports.LoginCodeRepository interface.
var _ ports.LoginCodeRepository = (*LoginCodeRepository)(nil)

// NewLoginCodeRepository creates a new login code repository.
func NewLoginCodeRepository(pool *pgxpool.Pool) *LoginCodeRepository {
	return &LoginCodeRepository{pool: pool}
}

// Create persists a hashed login code.
func (r *LoginCodeRepository) Create(ctx context.Context, code *domain.LoginCode) (*domain.LoginCode, error) {
	const query = `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, email, code_hash, expires_at, consumed_at, created_at`

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query, code.Email, code.CodeHash, code.ExpiresAt)
	return scanLoginCode(row)
}

// GetLatestActive returns the most recently issued, unconsumed, unexpired
// code for the email. Older codes are superseded the moment a new one is
// issued.
func (r *LoginCodeRepository) GetLatestActive(ctx context.Context, email string) (*domain.LoginCode, error) {
	const query = `
		SELECT id, email, code_hash, expires_at, consumed_at, created_at
		FROM login_codes
		WHERE email = $1 AND consumed_at IS NULL AND expires_at > now()
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	code, err := scanLoginCode(GetDBTX(ctx, r.pool).QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidLoginCode
		}
		return nil, err
	}
	return code, nil
}

// MarkConsumed stamps a code as used so it cannot be replayed.
func (r *LoginCodeRepository) MarkConsumed(ctx context.Context, id int64) error {
	const query = `
		UPDATE login_codes
		SET consumed_at = now()
		WHERE id = $1 AND consumed_at IS NULL`

	tag, err := GetDBTX(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidLoginCode
	}
	return nil
}

func scanLoginCode(row pgx.Row) (*domain.LoginCode, error) {
	var code domain.LoginCode
	err := row.Scan(
		&code.ID,
		&code.Email,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.ConsumedAt,
		&code.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &code, nil
}
