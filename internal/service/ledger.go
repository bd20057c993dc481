package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/events"
	"github.com/minibank/bank/internal/models"
	"github.com/minibank/bank/internal/repository"
)

// LedgerService enforces the balance-mutation rules. Every operation runs as a
// single transaction; balances are only read under row locks, so concurrent
// operations on the same account serialize at the store.
type LedgerService struct {
	db               *db.DB
	publisher        events.Publisher
	logger           *slog.Logger
	minDepositAmount int64
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(database *db.DB, publisher events.Publisher, logger *slog.Logger, minDepositAmount int64) *LedgerService {
	return &LedgerService{
		db:               database,
		publisher:        publisher,
		logger:           logger,
		minDepositAmount: minDepositAmount,
	}
}

// Deposit credits the account. Amounts below the configured minimum are
// rejected as invalid_amount, matching the original product rule.
func (s *LedgerService) Deposit(ctx context.Context, accountID uuid.UUID, amount int64) (*models.LedgerEntry, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}
	if amount < s.minDepositAmount {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: fmt.Sprintf("invalid amount: deposits must be at least %d", s.minDepositAmount),
		}
	}

	return s.inTx(ctx, func(accountRepo repository.AccountRepository, ledgerRepo repository.LedgerRepository) (*models.LedgerEntry, error) {
		return s.performDeposit(ctx, accountRepo, ledgerRepo, accountID, amount)
	})
}

func (s *LedgerService) performDeposit(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	accountID uuid.UUID,
	amount int64,
) (*models.LedgerEntry, error) {
	account, err := accountRepo.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
			Err:     err,
		}
	}

	if account.IsFrozen {
		return nil, &ServiceError{
			Code:    ErrCodeAccountFrozen,
			Message: "account is frozen",
		}
	}

	if err := accountRepo.AdjustBalance(ctx, accountID, amount); err != nil {
		return nil, internalError("failed to credit balance: %v", err)
	}

	entry := &models.LedgerEntry{
		ID:           uuid.New(),
		AccountID:    accountID,
		Type:         models.EntryTypeDeposit,
		Amount:       amount,
		BalanceAfter: account.Balance + amount,
	}
	if err := ledgerRepo.Create(ctx, entry); err != nil {
		return nil, internalError("failed to record deposit: %v", err)
	}

	return entry, nil
}

// Withdraw debits the account. The insufficient-funds check happens under the
// row lock, so two concurrent withdrawals cannot both pass it.
func (s *LedgerService) Withdraw(ctx context.Context, accountID uuid.UUID, amount int64) (*models.LedgerEntry, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}

	return s.inTx(ctx, func(accountRepo repository.AccountRepository, ledgerRepo repository.LedgerRepository) (*models.LedgerEntry, error) {
		return s.performWithdraw(ctx, accountRepo, ledgerRepo, accountID, amount)
	})
}

func (s *LedgerService) performWithdraw(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	accountID uuid.UUID,
	amount int64,
) (*models.LedgerEntry, error) {
	account, err := accountRepo.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
			Err:     err,
		}
	}

	if account.IsFrozen {
		return nil, &ServiceError{
			Code:    ErrCodeAccountFrozen,
			Message: "account is frozen",
		}
	}

	if amount > account.Balance {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
		}
	}

	if err := accountRepo.AdjustBalance(ctx, accountID, -amount); err != nil {
		return nil, internalError("failed to debit balance: %v", err)
	}

	entry := &models.LedgerEntry{
		ID:           uuid.New(),
		AccountID:    accountID,
		Type:         models.EntryTypeWithdrawal,
		Amount:       amount,
		BalanceAfter: account.Balance - amount,
	}
	if err := ledgerRepo.Create(ctx, entry); err != nil {
		return nil, internalError("failed to record withdrawal: %v", err)
	}

	return entry, nil
}

// Transfer moves funds to the account holding the receiver number. Debit and
// credit commit together or not at all. Both rows are locked in ascending id
// order before either balance is read.
func (s *LedgerService) Transfer(ctx context.Context, senderID uuid.UUID, receiverAccountNumber, amount int64) (*models.LedgerEntry, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}

	entry, err := s.inTx(ctx, func(accountRepo repository.AccountRepository, ledgerRepo repository.LedgerRepository) (*models.LedgerEntry, error) {
		return s.performTransfer(ctx, accountRepo, ledgerRepo, senderID, receiverAccountNumber, amount)
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.RouteTransferDone, map[string]any{
		"sender_id":       senderID,
		"receiver_number": receiverAccountNumber,
		"amount":          amount,
	}); err != nil {
		s.logger.Error("failed to publish transfer event", "error", err, "sender_id", senderID)
	}

	return entry, nil
}

func (s *LedgerService) performTransfer(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	senderID uuid.UUID,
	receiverAccountNumber, amount int64,
) (*models.LedgerEntry, error) {
	receiver, err := accountRepo.FindByAccountNumber(ctx, receiverAccountNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeReceiverNotFound,
				Message: "receiver account not found",
			}
		}
		return nil, internalError("failed to resolve receiver: %v", err)
	}

	if receiver.ID == senderID {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidReceiver,
			Message: "cannot transfer to the sending account",
		}
	}

	locked, err := accountRepo.LockPair(ctx, senderID, receiver.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeAccountNotFound,
				Message: "account not found",
			}
		}
		return nil, internalError("failed to lock accounts: %v", err)
	}
	sender := locked[senderID]
	receiver = locked[receiver.ID]

	if sender.IsFrozen {
		return nil, &ServiceError{
			Code:    ErrCodeAccountFrozen,
			Message: "account is frozen",
		}
	}

	if amount > sender.Balance {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
		}
	}

	if receiver.IsFrozen {
		return nil, &ServiceError{
			Code:    ErrCodeReceiverFrozen,
			Message: "receiver account is frozen",
		}
	}

	if err := accountRepo.AdjustBalance(ctx, sender.ID, -amount); err != nil {
		return nil, internalError("failed to debit sender: %v", err)
	}
	if err := accountRepo.AdjustBalance(ctx, receiver.ID, amount); err != nil {
		return nil, internalError("failed to credit receiver: %v", err)
	}

	outEntry := &models.LedgerEntry{
		ID:                        uuid.New(),
		AccountID:                 sender.ID,
		Type:                      models.EntryTypeTransferOut,
		Amount:                    amount,
		BalanceAfter:              sender.Balance - amount,
		CounterpartyAccountNumber: &receiver.AccountNumber,
	}
	if err := ledgerRepo.Create(ctx, outEntry); err != nil {
		return nil, internalError("failed to record transfer debit: %v", err)
	}

	inEntry := &models.LedgerEntry{
		ID:                        uuid.New(),
		AccountID:                 receiver.ID,
		Type:                      models.EntryTypeTransferIn,
		Amount:                    amount,
		BalanceAfter:              receiver.Balance + amount,
		CounterpartyAccountNumber: &sender.AccountNumber,
	}
	if err := ledgerRepo.Create(ctx, inEntry); err != nil {
		return nil, internalError("failed to record transfer credit: %v", err)
	}

	return outEntry, nil
}

// Entries returns the account's journal, newest first
func (s *LedgerService) Entries(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	repo := repository.NewLedgerRepository(s.db)
	entries, err := repo.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, internalError("failed to list ledger entries: %v", err)
	}
	return entries, nil
}

// inTx runs fn with transaction-scoped repositories and commits on success
func (s *LedgerService) inTx(
	ctx context.Context,
	fn func(repository.AccountRepository, repository.LedgerRepository) (*models.LedgerEntry, error),
) (*models.LedgerEntry, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, internalError("failed to start transaction: %v", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	entry, err := fn(repository.NewAccountRepository(tx), repository.NewLedgerRepository(tx))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, internalError("failed to commit transaction: %v", err)
	}

	return entry, nil
}
