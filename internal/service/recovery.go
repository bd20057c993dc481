package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/events"
	"github.com/minibank/bank/internal/models"
	"github.com/minibank/bank/internal/recovery"
	"github.com/minibank/bank/internal/repository"
)

// RecoveryService drives the forgot-password flow: an OTP bound to an email,
// held in an explicit session addressed by an opaque token. Sessions are
// single-use and expire after the configured OTP lifetime.
type RecoveryService struct {
	db          *db.DB
	sessions    recovery.Store
	publisher   events.Publisher
	logger      *slog.Logger
	otpLifetime time.Duration
}

// NewRecoveryService creates a new RecoveryService
func NewRecoveryService(
	database *db.DB,
	sessions recovery.Store,
	publisher events.Publisher,
	logger *slog.Logger,
	otpLifetime time.Duration,
) *RecoveryService {
	return &RecoveryService{
		db:          database,
		sessions:    sessions,
		publisher:   publisher,
		logger:      logger,
		otpLifetime: otpLifetime,
	}
}

// RequestRecovery starts a recovery flow for a registered email and returns
// the session token. The OTP itself travels only over the event bus; the
// notification layer delivers it to the account's inbox.
func (s *RecoveryService) RequestRecovery(ctx context.Context, email string) (string, error) {
	repo := repository.NewAccountRepository(s.db)
	return s.performRequestRecovery(ctx, repo, email)
}

func (s *RecoveryService) performRequestRecovery(
	ctx context.Context,
	repo repository.AccountRepository,
	email string,
) (string, error) {
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", &ServiceError{
				Code:    ErrCodeEmailNotFound,
				Message: "email not registered",
			}
		}
		return "", internalError("failed to look up account: %v", err)
	}

	otp, err := GenerateOTP()
	if err != nil {
		return "", internalError("failed to generate otp: %v", err)
	}

	token := uuid.NewString()
	session := models.RecoverySession{Email: account.Email, OTP: otp}
	if err := s.sessions.Put(ctx, token, session, s.otpLifetime); err != nil {
		return "", internalError("failed to store recovery session: %v", err)
	}

	if err := s.publisher.Publish(ctx, events.RouteOTPRequested, map[string]any{
		"email": account.Email,
		"otp":   otp,
	}); err != nil {
		s.logger.Error("failed to publish otp event", "error", err)
	}

	return token, nil
}

// ConfirmRecovery consumes the session and commits the new password. An OTP
// mismatch leaves the session intact so the caller may retry; any success
// invalidates it.
func (s *RecoveryService) ConfirmRecovery(ctx context.Context, token, otp, newPassword, confirm string) error {
	repo := repository.NewAccountRepository(s.db)
	return s.performConfirmRecovery(ctx, repo, token, otp, newPassword, confirm)
}

func (s *RecoveryService) performConfirmRecovery(
	ctx context.Context,
	repo repository.AccountRepository,
	token, otp, newPassword, confirm string,
) error {
	if err := ValidatePassword(newPassword); err != nil {
		return &ServiceError{Code: ErrCodeInvalidPassword, Message: err.Error()}
	}
	if newPassword != confirm {
		return &ServiceError{
			Code:    ErrCodePasswordMismatch,
			Message: "password confirmation does not match",
		}
	}

	session, err := s.sessions.Consume(ctx, token, otp)
	switch {
	case errors.Is(err, recovery.ErrNoSession):
		return &ServiceError{
			Code:    ErrCodeNoActiveRecovery,
			Message: "no active recovery session",
		}
	case errors.Is(err, recovery.ErrOTPMismatch):
		return &ServiceError{
			Code:    ErrCodeOTPMismatch,
			Message: "incorrect otp",
		}
	case err != nil:
		return internalError("failed to consume recovery session: %v", err)
	}

	account, err := repo.FindByEmail(ctx, session.Email)
	if err != nil {
		return internalError("failed to resolve recovery account: %v", err)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return internalError("failed to hash password: %v", err)
	}

	if err := repo.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return internalError("failed to store password hash: %v", err)
	}

	if err := s.publisher.Publish(ctx, events.RoutePasswordReset, map[string]any{
		"email": session.Email,
	}); err != nil {
		s.logger.Error("failed to publish password reset event", "error", err)
	}

	return nil
}

// AbandonRecovery discards the session without consuming it
func (s *RecoveryService) AbandonRecovery(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return internalError("failed to delete recovery session: %v", err)
	}
	return nil
}
