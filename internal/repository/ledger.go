package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/models"
)

// LedgerRepository defines the interface for the append-only journal
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.LedgerEntry, error)
}

type ledgerRepository struct {
	db db.Querier
}

// NewLedgerRepository creates a new LedgerRepository over a pool or transaction
func NewLedgerRepository(q db.Querier) LedgerRepository {
	return &ledgerRepository{db: q}
}

// Create appends a journal entry. Entries are never updated or deleted.
func (r *ledgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, account_id, type, amount, balance_after, counterparty_account_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Type,
		entry.Amount,
		entry.BalanceAfter,
		entry.CounterpartyAccountNumber,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// ListByAccount returns the account's journal entries, newest first
func (r *ledgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, type, amount, balance_after, counterparty_account_number, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Type,
			&entry.Amount,
			&entry.BalanceAfter,
			&entry.CounterpartyAccountNumber,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}

	return entries, nil
}
