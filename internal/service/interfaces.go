package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/models"
)

// Registry handles account creation, lookup and administrative state
type Registry interface {
	Register(ctx context.Context, username, email, password, confirm string) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByAccountNumber(ctx context.Context, number int64) (*models.Account, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, username, email, imageFile string) error
	ToggleFreeze(ctx context.Context, actorID, targetID uuid.UUID) (bool, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

// Ledger handles guarded balance mutation
type Ledger interface {
	Deposit(ctx context.Context, accountID uuid.UUID, amount int64) (*models.LedgerEntry, error)
	Withdraw(ctx context.Context, accountID uuid.UUID, amount int64) (*models.LedgerEntry, error)
	Transfer(ctx context.Context, senderID uuid.UUID, receiverAccountNumber, amount int64) (*models.LedgerEntry, error)
	Entries(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.LedgerEntry, error)
}

// Recoverer handles the forgot-password flow
type Recoverer interface {
	RequestRecovery(ctx context.Context, email string) (string, error)
	ConfirmRecovery(ctx context.Context, token, otp, newPassword, confirm string) error
	AbandonRecovery(ctx context.Context, token string) error
}

// PasswordChanger handles authenticated password replacement
type PasswordChanger interface {
	ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword, confirm string) error
}

// Poster handles user-authored posts
type Poster interface {
	CreatePost(ctx context.Context, accountID uuid.UUID, title, content string) (*models.Post, error)
	ListPosts(ctx context.Context, accountID uuid.UUID) ([]*models.Post, error)
}

// Ensure concrete types implement interfaces
var (
	_ Registry        = (*RegistryService)(nil)
	_ Ledger          = (*LedgerService)(nil)
	_ Recoverer       = (*RecoveryService)(nil)
	_ PasswordChanger = (*CredentialService)(nil)
	_ Poster          = (*PostService)(nil)
)
