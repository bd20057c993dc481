package models

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey tracks processed requests to prevent duplicate ledger
// operations. Keys are scoped per account so one caller can never replay
// another caller's cached response.
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
	AccountID      uuid.UUID `db:"account_id"`
}
