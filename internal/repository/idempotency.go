package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/models"
)

// IdempotencyRepository stores cached responses for idempotent requests,
// scoped per account
type IdempotencyRepository interface {
	Get(ctx context.Context, accountID uuid.UUID, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

type idempotencyRepository struct {
	db db.Querier
}

// NewIdempotencyRepository creates a new IdempotencyRepository
func NewIdempotencyRepository(q db.Querier) IdempotencyRepository {
	return &idempotencyRepository{db: q}
}

// Get returns the account's cached response for the key and path, or nil
// when absent
func (r *idempotencyRepository) Get(ctx context.Context, accountID uuid.UUID, key, requestPath string) (*models.IdempotencyKey, error) {
	query := `
		SELECT account_id, key, request_path, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE account_id = $1 AND key = $2 AND request_path = $3
	`

	var idemKey models.IdempotencyKey
	err := r.db.QueryRowContext(ctx, query, accountID, key, requestPath).Scan(
		&idemKey.AccountID,
		&idemKey.Key,
		&idemKey.RequestPath,
		&idemKey.ResponseStatus,
		&idemKey.ResponseBody,
		&idemKey.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	return &idemKey, nil
}

// Store caches a response. Concurrent duplicates lose quietly; the first
// stored response wins.
func (r *idempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (account_id, key, request_path, response_status, response_body)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, key, request_path) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		idemKey.AccountID,
		idemKey.Key,
		idemKey.RequestPath,
		idemKey.ResponseStatus,
		idemKey.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return nil
}
