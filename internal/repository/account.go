// Package repository provides data access layer implementations for the bank service.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByAccountNumber(ctx context.Context, number int64) (*models.Account, error)
	LockPair(ctx context.Context, first, second uuid.UUID) (map[uuid.UUID]*models.Account, error)
	AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) error
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email, imageFile string) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	SetFrozen(ctx context.Context, id uuid.UUID, frozen bool) error
	List(ctx context.Context) ([]*models.Account, error)
}

const accountColumns = `id, username, email, password_hash, account_number,
       balance, is_frozen, is_admin, image_file, created_at, updated_at`

// accountRepository implements AccountRepository
type accountRepository struct {
	db db.Querier
}

// NewAccountRepository creates a new AccountRepository over a pool or transaction
func NewAccountRepository(q db.Querier) AccountRepository {
	return &accountRepository{db: q}
}

// Create inserts a new account, translating unique-constraint violations into
// the matching domain error so callers can tell which field collided.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, account_number, balance, is_frozen, is_admin, image_file)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.AccountNumber,
		account.Balance,
		account.IsFrozen,
		account.IsAdmin,
		account.ImageFile,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if dupErr := mapUniqueViolation(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindByID retrieves an account by its UUID
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "id")
}

// FindByIDForUpdate retrieves an account by UUID and takes a row lock.
// Must be called inside a transaction.
func (r *accountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "id")
}

// FindByEmail retrieves an account by exact email match
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), "email")
}

// FindByUsername retrieves an account by exact username match
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username), "username")
}

// FindByAccountNumber retrieves an account by its public transfer number
func (r *accountRepository) FindByAccountNumber(ctx context.Context, number int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, number), "account number")
}

// LockPair locks two account rows in ascending id order and returns them keyed
// by id. The consistent ordering prevents deadlock between two concurrent
// opposite-direction transfers. Must be called inside a transaction.
func (r *accountRepository) LockPair(ctx context.Context, first, second uuid.UUID) (map[uuid.UUID]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := r.db.QueryContext(ctx, query, pq.Array([]uuid.UUID{first, second}))
	if err != nil {
		return nil, fmt.Errorf("failed to lock account pair: %w", err)
	}
	defer rows.Close()

	locked := make(map[uuid.UUID]*models.Account, 2)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account: %w", err)
		}
		locked[account.ID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locked accounts: %w", err)
	}

	if len(locked) != 2 {
		return nil, models.ErrNotFound
	}

	return locked, nil
}

// AdjustBalance atomically adjusts the balance by the given delta
func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}

	return requireRow(result)
}

// UpdateProfile replaces the account's username, email and image reference.
// Unique-constraint violations map to the matching domain error.
func (r *accountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, username, email, imageFile string) error {
	query := `
		UPDATE accounts
		SET username = $2,
		    email = $3,
		    image_file = $4,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, username, email, imageFile)
	if err != nil {
		if dupErr := mapUniqueViolation(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return requireRow(result)
}

// UpdatePasswordHash replaces the stored password hash
func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	return requireRow(result)
}

// SetFrozen sets the freeze flag
func (r *accountRepository) SetFrozen(ctx context.Context, id uuid.UUID, frozen bool) error {
	query := `
		UPDATE accounts
		SET is_frozen = $2,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, frozen)
	if err != nil {
		return fmt.Errorf("failed to set freeze flag: %w", err)
	}

	return requireRow(result)
}

// List returns all accounts ordered by creation time
func (r *accountRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	return accounts, nil
}

func (r *accountRepository) scanOne(row *sql.Row, by string) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.AccountNumber,
		&account.Balance,
		&account.IsFrozen,
		&account.IsAdmin,
		&account.ImageFile,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by %s: %w", by, err)
	}

	return &account, nil
}

func scanAccount(rows *sql.Rows) (*models.Account, error) {
	var account models.Account
	err := rows.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.AccountNumber,
		&account.Balance,
		&account.IsFrozen,
		&account.IsAdmin,
		&account.ImageFile,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// mapUniqueViolation translates a pq unique-constraint violation into the
// domain error for the colliding column, or nil for any other error.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}

	switch pqErr.Constraint {
	case "accounts_username_key":
		return models.ErrDuplicateUsername
	case "accounts_email_key":
		return models.ErrDuplicateEmail
	case "accounts_account_number_key":
		return models.ErrDuplicateAccountNumber
	default:
		return nil
	}
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
