package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents one banking identity with its balance and flags
type Account struct {
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	Username      string    `db:"username"`
	Email         string    `db:"email"`
	PasswordHash  string    `db:"password_hash"`
	ImageFile     string    `db:"image_file"`
	AccountNumber int64     `db:"account_number"`
	Balance       int64     `db:"balance"`
	IsFrozen      bool      `db:"is_frozen"`
	IsAdmin       bool      `db:"is_admin"`
	ID            uuid.UUID `db:"id"`
}
