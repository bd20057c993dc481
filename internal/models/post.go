package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a user-authored record owned by exactly one account
type Post struct {
	CreatedAt time.Time `db:"created_at"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	ID        uuid.UUID `db:"id"`
	AccountID uuid.UUID `db:"account_id"`
}
