package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/events"
	"github.com/minibank/bank/internal/models"
	"github.com/minibank/bank/internal/repository"
)

// accountNumberAttempts bounds regeneration when a freshly drawn account
// number collides with an existing one.
const accountNumberAttempts = 5

// RegistryService owns account creation, lookup and administrative state
type RegistryService struct {
	db        *db.DB
	publisher events.Publisher
	logger    *slog.Logger
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(database *db.DB, publisher events.Publisher, logger *slog.Logger) *RegistryService {
	return &RegistryService{
		db:        database,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates a new account with a zero balance and a fresh account number.
// Uniqueness of username and email is enforced by the storage constraints;
// collisions surface as duplicate_username / duplicate_email.
func (s *RegistryService) Register(ctx context.Context, username, email, password, confirm string) (*models.Account, error) {
	if err := s.validateRegistration(username, email, password, confirm); err != nil {
		return nil, err
	}

	repo := repository.NewAccountRepository(s.db)
	return s.performRegister(ctx, repo, username, email, password)
}

func (s *RegistryService) performRegister(
	ctx context.Context,
	repo repository.AccountRepository,
	username, email, password string,
) (*models.Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, internalError("failed to hash password: %v", err)
	}

	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		number, err := generateAccountNumber()
		if err != nil {
			return nil, internalError("failed to generate account number: %v", err)
		}

		account := &models.Account{
			ID:            uuid.New(),
			Username:      username,
			Email:         email,
			PasswordHash:  hash,
			AccountNumber: number,
			ImageFile:     "default.jpg",
		}

		err = repo.Create(ctx, account)
		switch {
		case err == nil:
			return account, nil
		case errors.Is(err, models.ErrDuplicateUsername):
			return nil, &ServiceError{
				Code:    ErrCodeDuplicateUsername,
				Message: "username already taken",
			}
		case errors.Is(err, models.ErrDuplicateEmail):
			return nil, &ServiceError{
				Code:    ErrCodeDuplicateEmail,
				Message: "email already registered",
			}
		case errors.Is(err, models.ErrDuplicateAccountNumber):
			// Collision space is ~900M values; regenerate and retry.
			s.logger.Warn("account number collision, regenerating", "attempt", attempt+1)
			continue
		default:
			return nil, internalError("failed to create account: %v", err)
		}
	}

	return nil, internalError("exhausted account number generation attempts")
}

// Authenticate resolves an account by email and verifies the password.
// Failures are indistinguishable to avoid leaking which field was wrong.
func (s *RegistryService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	repo := repository.NewAccountRepository(s.db)
	return s.performAuthenticate(ctx, repo, email, password)
}

func (s *RegistryService) performAuthenticate(
	ctx context.Context,
	repo repository.AccountRepository,
	email, password string,
) (*models.Account, error) {
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeInvalidCredentials,
				Message: "invalid credentials",
			}
		}
		return nil, internalError("failed to look up account: %v", err)
	}

	if !VerifyPassword(account.PasswordHash, password) {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: "invalid credentials",
		}
	}

	return account, nil
}

// FindByID retrieves an account by internal id
func (s *RegistryService) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.find(ctx, func(repo repository.AccountRepository) (*models.Account, error) {
		return repo.FindByID(ctx, id)
	})
}

// FindByEmail retrieves an account by exact email match
func (s *RegistryService) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.find(ctx, func(repo repository.AccountRepository) (*models.Account, error) {
		return repo.FindByEmail(ctx, email)
	})
}

// FindByUsername retrieves an account by exact username match
func (s *RegistryService) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.find(ctx, func(repo repository.AccountRepository) (*models.Account, error) {
		return repo.FindByUsername(ctx, username)
	})
}

// FindByAccountNumber retrieves an account by its public transfer number
func (s *RegistryService) FindByAccountNumber(ctx context.Context, number int64) (*models.Account, error) {
	return s.find(ctx, func(repo repository.AccountRepository) (*models.Account, error) {
		return repo.FindByAccountNumber(ctx, number)
	})
}

func (s *RegistryService) find(_ context.Context, lookup func(repository.AccountRepository) (*models.Account, error)) (*models.Account, error) {
	account, err := lookup(repository.NewAccountRepository(s.db))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeAccountNotFound,
				Message: "account not found",
			}
		}
		return nil, internalError("failed to look up account: %v", err)
	}
	return account, nil
}

// UpdateProfile replaces username, email and optionally the profile image
// reference. Keeping the current username or email is not a collision; only a
// value held by a different account fails.
func (s *RegistryService) UpdateProfile(ctx context.Context, accountID uuid.UUID, username, email, imageFile string) error {
	repo := repository.NewAccountRepository(s.db)
	return s.performUpdateProfile(ctx, repo, accountID, username, email, imageFile)
}

func (s *RegistryService) performUpdateProfile(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	accountID uuid.UUID,
	username, email, imageFile string,
) error {
	if err := ValidateUsername(username); err != nil {
		return &ServiceError{Code: ErrCodeInvalidUsername, Message: err.Error()}
	}
	if err := ValidateEmail(email); err != nil {
		return &ServiceError{Code: ErrCodeInvalidEmail, Message: err.Error()}
	}

	account, err := accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
			Err:     err,
		}
	}

	if imageFile == "" {
		imageFile = account.ImageFile
	}

	err = accountRepo.UpdateProfile(ctx, accountID, username, email, imageFile)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrDuplicateUsername):
		return &ServiceError{
			Code:    ErrCodeDuplicateUsername,
			Message: "username already taken",
		}
	case errors.Is(err, models.ErrDuplicateEmail):
		return &ServiceError{
			Code:    ErrCodeDuplicateEmail,
			Message: "email already registered",
		}
	default:
		return internalError("failed to update profile: %v", err)
	}
}

// ToggleFreeze flips the target's freeze flag and returns the new state.
// An account may toggle itself; toggling any other account requires admin.
// Two toggles restore the original state.
func (s *RegistryService) ToggleFreeze(ctx context.Context, actorID, targetID uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, internalError("failed to start transaction: %v", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repo := repository.NewAccountRepository(tx)

	actor, err := repo.FindByID(ctx, actorID)
	if err != nil {
		return false, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
			Err:     err,
		}
	}

	if actorID != targetID && !actor.IsAdmin {
		return false, &ServiceError{
			Code:    ErrCodeNotAuthorized,
			Message: "only the account owner or an admin may toggle freeze",
		}
	}

	target, err := repo.FindByIDForUpdate(ctx, targetID)
	if err != nil {
		return false, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
			Err:     err,
		}
	}

	frozen := !target.IsFrozen
	if err := repo.SetFrozen(ctx, targetID, frozen); err != nil {
		return false, internalError("failed to set freeze flag: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return false, internalError("failed to commit transaction: %v", err)
	}

	route := events.RouteAccountUnfrozen
	if frozen {
		route = events.RouteAccountFrozen
	}
	if err := s.publisher.Publish(ctx, route, map[string]any{
		"account_id":     targetID,
		"account_number": target.AccountNumber,
		"frozen":         frozen,
	}); err != nil {
		s.logger.Error("failed to publish freeze event", "error", err, "account_id", targetID)
	}

	return frozen, nil
}

// ListAccounts returns all accounts. Callers gate this behind admin checks.
func (s *RegistryService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	repo := repository.NewAccountRepository(s.db)
	accounts, err := repo.List(ctx)
	if err != nil {
		return nil, internalError("failed to list accounts: %v", err)
	}
	return accounts, nil
}

func (s *RegistryService) validateRegistration(username, email, password, confirm string) error {
	if err := ValidateUsername(username); err != nil {
		return &ServiceError{Code: ErrCodeInvalidUsername, Message: err.Error()}
	}
	if err := ValidateEmail(email); err != nil {
		return &ServiceError{Code: ErrCodeInvalidEmail, Message: err.Error()}
	}
	if err := ValidatePassword(password); err != nil {
		return &ServiceError{Code: ErrCodeInvalidPassword, Message: err.Error()}
	}
	if password != confirm {
		return &ServiceError{
			Code:    ErrCodePasswordMismatch,
			Message: "password confirmation does not match",
		}
	}
	return nil
}
