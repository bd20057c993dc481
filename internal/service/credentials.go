package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a one-way bcrypt hash of the plaintext
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateOTP draws a 6-digit code in [100000, 999999] from a
// cryptographically secure source.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// generateAccountNumber draws a public transfer number in
// [100000000, 999999999] from a cryptographically secure source.
func generateAccountNumber() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000000))
	if err != nil {
		return 0, fmt.Errorf("failed to generate account number: %w", err)
	}
	return n.Int64() + 100000000, nil
}

// CredentialService handles password verification and replacement
type CredentialService struct {
	db *db.DB
}

// NewCredentialService creates a new CredentialService
func NewCredentialService(database *db.DB) *CredentialService {
	return &CredentialService{db: database}
}

// ChangePassword replaces the account's password hash after verifying the old
// plaintext. Nothing is committed when verification fails.
func (s *CredentialService) ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword, confirm string) error {
	repo := repository.NewAccountRepository(s.db)
	return s.performChangePassword(ctx, repo, accountID, oldPassword, newPassword, confirm)
}

func (s *CredentialService) performChangePassword(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	accountID uuid.UUID,
	oldPassword, newPassword, confirm string,
) error {
	if err := ValidatePassword(newPassword); err != nil {
		return &ServiceError{
			Code:    ErrCodeInvalidPassword,
			Message: err.Error(),
		}
	}
	if newPassword != confirm {
		return &ServiceError{
			Code:    ErrCodePasswordMismatch,
			Message: "password confirmation does not match",
		}
	}

	account, err := accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
			Err:     err,
		}
	}

	if !VerifyPassword(account.PasswordHash, oldPassword) {
		return &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: "invalid credentials",
		}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return internalError("failed to hash password: %v", err)
	}

	if err := accountRepo.UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return internalError("failed to store password hash: %v", err)
	}

	return nil
}
