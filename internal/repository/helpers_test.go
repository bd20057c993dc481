package repository

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/minibank/bank/internal/config"
	"github.com/minibank/bank/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	logger := cfg.Logger.NewLogger()

	database, err := db.Connect(context.Background(), &cfg.Database, logger)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	runMigrations(t, database)
	truncateTables(t, database)

	return database
}

func runMigrations(t *testing.T, database *db.DB) {
	t.Helper()

	migrationPath := filepath.Join("..", "..", "internal", "db", "migrations", "000001_init.up.sql")
	sqlBytes, err := os.ReadFile(migrationPath) // #nosec G304
	if err != nil {
		t.Fatalf("failed to read migration file: %v", err)
	}

	_, err = database.ExecContext(context.Background(), string(sqlBytes))
	if err != nil {
		t.Logf("migration execution completed (tables may already exist): %v", err)
	}
}

func cleanupTestDB(t *testing.T, database *db.DB) {
	t.Helper()
	if err := database.Close(); err != nil {
		log.Printf("failed to close test database: %v", err)
	}
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	tables := []string{"ledger_entries", "posts", "idempotency_keys"}
	for _, table := range tables {
		_, err := database.ExecContext(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}

	_, err := database.ExecContext(context.Background(), `
		DELETE FROM accounts;
		INSERT INTO accounts (username, email, password_hash, account_number, balance, is_frozen, is_admin) VALUES
			('alice', 'alice@example.com', 'test-hash', 111222333, 50000, FALSE, FALSE),
			('bob', 'bob@example.com', 'test-hash', 444555666, 10000, FALSE, FALSE),
			('carol', 'carol@example.com', 'test-hash', 777888999, 0, TRUE, FALSE),
			('dan', 'dan@example.com', 'test-hash', 123123123, 500000, FALSE, TRUE);
	`)
	if err != nil {
		t.Fatalf("failed to reset accounts: %v", err)
	}
}
