package models

// RecoverySession binds a pending password-reset OTP to an account's email.
// Sessions are single-use: consumed on a successful reset, otherwise they
// expire after the configured OTP lifetime.
type RecoverySession struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
