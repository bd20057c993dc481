package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/events"
	"github.com/minibank/bank/internal/models"
	"github.com/minibank/bank/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRegistryService() *RegistryService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRegistryService(nil, &events.NoopPublisher{}, logger)
}

func TestRegistryService_Register_Validation(t *testing.T) {
	service := newTestRegistryService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		confirm  string
		wantCode string
	}{
		{"username too short", "a", "alice@example.com", "secret", "secret", ErrCodeInvalidUsername},
		{"username too long", "averyverylongusername", "alice@example.com", "secret", "secret", ErrCodeInvalidUsername},
		{"malformed email", "alice", "not-an-email", "secret", "secret", ErrCodeInvalidEmail},
		{"empty password", "alice", "alice@example.com", "", "", ErrCodeInvalidPassword},
		{"confirmation mismatch", "alice", "alice@example.com", "secret", "different", ErrCodePasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := service.Register(ctx, tt.username, tt.email, tt.password, tt.confirm)

			assert.Nil(t, account)
			var svcErr *ServiceError
			if assert.ErrorAs(t, err, &svcErr) {
				assert.Equal(t, tt.wantCode, svcErr.Code)
			}
		})
	}
}

func TestRegistryService_PerformRegister(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*models.Account")).Return(nil)

		account, err := service.performRegister(ctx, mockAccountRepo, "alice", "alice@example.com", "secret")

		assert.NoError(t, err)
		assert.NotNil(t, account)
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, "alice@example.com", account.Email)
		assert.Equal(t, "default.jpg", account.ImageFile)
		assert.Equal(t, int64(0), account.Balance)
		assert.False(t, account.IsFrozen)
		assert.False(t, account.IsAdmin)
		assert.GreaterOrEqual(t, account.AccountNumber, int64(100000000))
		assert.LessOrEqual(t, account.AccountNumber, int64(999999999))
		assert.NotEqual(t, "secret", account.PasswordHash)
		assert.True(t, VerifyPassword(account.PasswordHash, "secret"))

		mockAccountRepo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*models.Account")).Return(models.ErrDuplicateUsername)

		account, err := service.performRegister(ctx, mockAccountRepo, "alice", "alice@example.com", "secret")

		assert.Nil(t, account)
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeDuplicateUsername, svcErr.Code)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*models.Account")).Return(models.ErrDuplicateEmail)

		account, err := service.performRegister(ctx, mockAccountRepo, "alice", "alice@example.com", "secret")

		assert.Nil(t, account)
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeDuplicateEmail, svcErr.Code)
		}
	})

	t.Run("regenerates account number on collision", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*models.Account")).Return(models.ErrDuplicateAccountNumber).Once()
		mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*models.Account")).Return(nil).Once()

		account, err := service.performRegister(ctx, mockAccountRepo, "alice", "alice@example.com", "secret")

		assert.NoError(t, err)
		assert.NotNil(t, account)

		mockAccountRepo.AssertExpectations(t)
		mockAccountRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("gives up after bounded collision attempts", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*models.Account")).Return(models.ErrDuplicateAccountNumber)

		account, err := service.performRegister(ctx, mockAccountRepo, "alice", "alice@example.com", "secret")

		assert.Nil(t, account)
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeInternalError, svcErr.Code)
		}

		mockAccountRepo.AssertNumberOfCalls(t, "Create", accountNumberAttempts)
	})
}

func TestRegistryService_PerformAuthenticate(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	account := &models.Account{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

	t.Run("successful authentication", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		mockAccountRepo.On("FindByEmail", ctx, "alice@example.com").Return(account, nil)

		got, err := service.performAuthenticate(ctx, mockAccountRepo, "alice@example.com", "secret")

		assert.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		mockAccountRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, models.ErrNotFound)

		got, err := service.performAuthenticate(ctx, mockAccountRepo, "nobody@example.com", "secret")

		assert.Nil(t, got)
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeInvalidCredentials, svcErr.Code)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		mockAccountRepo.On("FindByEmail", ctx, "alice@example.com").Return(account, nil)

		got, err := service.performAuthenticate(ctx, mockAccountRepo, "alice@example.com", "wrong")

		assert.Nil(t, got)
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeInvalidCredentials, svcErr.Code)
		}
	})
}

func TestRegistryService_PerformUpdateProfile(t *testing.T) {
	t.Run("successful update", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		accountID := uuid.New()
		account := &models.Account{ID: accountID, Username: "alice", Email: "alice@example.com", ImageFile: "default.jpg"}

		mockAccountRepo.On("FindByID", ctx, accountID).Return(account, nil)
		mockAccountRepo.On("UpdateProfile", ctx, accountID, "alice2", "alice2@example.com", "abc123.png").Return(nil)

		err := service.performUpdateProfile(ctx, mockAccountRepo, accountID, "alice2", "alice2@example.com", "abc123.png")

		assert.NoError(t, err)
		mockAccountRepo.AssertExpectations(t)
	})

	t.Run("empty image keeps current reference", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		accountID := uuid.New()
		account := &models.Account{ID: accountID, Username: "alice", Email: "alice@example.com", ImageFile: "existing.png"}

		mockAccountRepo.On("FindByID", ctx, accountID).Return(account, nil)
		mockAccountRepo.On("UpdateProfile", ctx, accountID, "alice", "alice@example.com", "existing.png").Return(nil)

		err := service.performUpdateProfile(ctx, mockAccountRepo, accountID, "alice", "alice@example.com", "")

		assert.NoError(t, err)
		mockAccountRepo.AssertExpectations(t)
	})

	t.Run("email held by another account", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		accountID := uuid.New()
		account := &models.Account{ID: accountID, Username: "alice", Email: "alice@example.com", ImageFile: "default.jpg"}

		mockAccountRepo.On("FindByID", ctx, accountID).Return(account, nil)
		mockAccountRepo.On("UpdateProfile", ctx, accountID, "alice", "bob@example.com", "default.jpg").Return(models.ErrDuplicateEmail)

		err := service.performUpdateProfile(ctx, mockAccountRepo, accountID, "alice", "bob@example.com", "")

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeDuplicateEmail, svcErr.Code)
		}
	})

	t.Run("invalid username rejected before lookup", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestRegistryService()
		ctx := context.Background()

		err := service.performUpdateProfile(ctx, mockAccountRepo, uuid.New(), "x", "alice@example.com", "")

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeInvalidUsername, svcErr.Code)
		}

		mockAccountRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
