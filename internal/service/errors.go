package service

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidUsername    = "invalid_username"
	ErrCodeInvalidEmail       = "invalid_email"
	ErrCodeInvalidPassword    = "invalid_password"
	ErrCodePasswordMismatch   = "password_mismatch"
	ErrCodeDuplicateUsername  = "duplicate_username"
	ErrCodeDuplicateEmail     = "duplicate_email"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeAccountNotFound    = "account_not_found"
	ErrCodeNotAuthorized      = "not_authorized"
	ErrCodeAccountFrozen      = "account_frozen"
	ErrCodeReceiverFrozen     = "receiver_frozen"
	ErrCodeReceiverNotFound   = "receiver_not_found"
	ErrCodeInvalidReceiver    = "invalid_receiver"
	ErrCodeInsufficientFunds  = "insufficient_funds"
	ErrCodeInvalidAmount      = "invalid_amount"
	ErrCodeEmailNotFound      = "email_not_found"
	ErrCodeNoActiveRecovery   = "no_active_recovery"
	ErrCodeOTPMismatch        = "otp_mismatch"
	ErrCodeInvalidTitle       = "invalid_title"
	ErrCodeInternalError      = "internal_error"
)

func internalError(format string, args ...any) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInternalError,
		Message: fmt.Sprintf(format, args...),
	}
}
