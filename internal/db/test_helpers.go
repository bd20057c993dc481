package db

import (
	"database/sql"
	"io"
	"log/slog"
)

// NewTestDB wraps an already-open connection in a DB with a discarded
// logger, so repository tests against the bank schema run without log noise.
func NewTestDB(sqlDB *sql.DB) *DB {
	return &DB{
		DB:     sqlDB,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
