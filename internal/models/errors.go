package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername indicates another account already holds the username
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrDuplicateEmail indicates another account already holds the email
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrDuplicateAccountNumber indicates a generated account number collided
	// with an existing one; callers regenerate and retry
	ErrDuplicateAccountNumber = errors.New("duplicate account number")
)
