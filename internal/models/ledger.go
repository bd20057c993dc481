package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryType classifies a ledger entry
type EntryType string

const (
	EntryTypeDeposit     EntryType = "DEPOSIT"
	EntryTypeWithdrawal  EntryType = "WITHDRAWAL"
	EntryTypeTransferIn  EntryType = "TRANSFER_IN"
	EntryTypeTransferOut EntryType = "TRANSFER_OUT"
)

// LedgerEntry is one append-only journal record per accepted balance mutation.
// Entries are written in the same transaction as the balance change and are
// never updated or deleted.
type LedgerEntry struct {
	CreatedAt                 time.Time `db:"created_at"`
	Type                      EntryType `db:"type"`
	CounterpartyAccountNumber *int64    `db:"counterparty_account_number"`
	Amount                    int64     `db:"amount"`
	BalanceAfter              int64     `db:"balance_after"`
	ID                        uuid.UUID `db:"id"`
	AccountID                 uuid.UUID `db:"account_id"`
}
