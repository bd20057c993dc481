//nolint:errcheck // unchecked errors are acceptable in test files
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/minibank/bank/internal/config"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/handlers"
	"github.com/minibank/bank/internal/models"
	"github.com/minibank/bank/internal/recovery"
	"github.com/minibank/bank/internal/service"
	"github.com/stretchr/testify/require"
)

// memorySessionStore keeps recovery sessions in memory so the suite can run
// without Redis and can read the OTP the service generated.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.RecoverySession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]models.RecoverySession)}
}

func (s *memorySessionStore) Put(_ context.Context, token string, session models.RecoverySession, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session
	return nil
}

func (s *memorySessionStore) Consume(_ context.Context, token, otp string) (*models.RecoverySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, recovery.ErrNoSession
	}
	if session.OTP != otp {
		return nil, recovery.ErrOTPMismatch
	}
	delete(s.sessions, token)
	return &session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// OTPFor returns the OTP held for the token, standing in for the
// notification channel that would deliver it to the user.
func (s *memorySessionStore) OTPFor(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	return session.OTP, ok
}

// memoryPublisher records published events instead of talking to a broker
type memoryPublisher struct {
	mu          sync.Mutex
	routingKeys []string
}

func (p *memoryPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routingKeys = append(p.routingKeys, routingKey)
	return nil
}

func (p *memoryPublisher) Close() {}

func (p *memoryPublisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.routingKeys...)
}

// TestServer wraps the HTTP test server and database for integration tests.
type TestServer struct {
	Server   *httptest.Server
	Database *db.DB
	Sessions *memorySessionStore
	Events   *memoryPublisher
	t        *testing.T
}

// SetupTest creates a new test server with a clean database state.
func SetupTest(t *testing.T) *TestServer {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err, "failed to load config")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	database, err := db.Connect(context.Background(), &cfg.Database, logger)
	require.NoError(t, err, "failed to connect to database")

	runMigrations(t, database)
	resetTestData(t, database)

	sessions := newMemorySessionStore()
	publisher := &memoryPublisher{}

	router := handlers.NewRouter(database, sessions, publisher, cfg, logger)
	server := httptest.NewServer(router)

	return &TestServer{
		Server:   server,
		Database: database,
		Sessions: sessions,
		Events:   publisher,
		t:        t,
	}
}

// Close shuts down the test server and database connection.
func (ts *TestServer) Close() {
	ts.Server.Close()
	_ = ts.Database.Close()
}

// URL returns the full URL for a given path.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

func runMigrations(t *testing.T, database *db.DB) {
	t.Helper()

	migrationPath := filepath.Join("..", "internal", "db", "migrations", "000001_init.up.sql")
	sqlBytes, err := os.ReadFile(migrationPath) // #nosec G304
	if err != nil {
		t.Fatalf("failed to read migration file: %v", err)
	}

	_, err = database.ExecContext(context.Background(), string(sqlBytes))
	if err != nil {
		t.Logf("migration execution completed (tables may already exist): %v", err)
	}
}

func resetTestData(t *testing.T, database *db.DB) {
	t.Helper()

	adminHash, err := service.HashPassword("adminpass")
	require.NoError(t, err, "failed to hash admin password")

	_, err = database.ExecContext(context.Background(), `
		TRUNCATE TABLE ledger_entries CASCADE;
		TRUNCATE TABLE posts CASCADE;
		TRUNCATE TABLE idempotency_keys CASCADE;
		DELETE FROM accounts;
	`)
	require.NoError(t, err, "failed to reset test data")

	_, err = database.ExecContext(context.Background(), `
		INSERT INTO accounts (username, email, password_hash, account_number, balance, is_admin)
		VALUES ('admin', 'admin@example.com', $1, 999000111, 0, TRUE);
	`, adminHash)
	require.NoError(t, err, "failed to seed admin account")
}

// Register sends a POST request to create an account.
func (ts *TestServer) Register(t *testing.T, username, email, password string) *http.Response {
	t.Helper()

	return ts.do(t, http.MethodPost, "/api/v1/register", "", "", map[string]any{
		"username":              username,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	})
}

// Login authenticates and returns the bearer token.
func (ts *TestServer) Login(t *testing.T, email, password string) string {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/api/v1/login", "", "", map[string]any{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "login should succeed")

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["token"].(string)
}

// RegisterAndLogin creates an account and returns its token and account number.
func (ts *TestServer) RegisterAndLogin(t *testing.T, username, email, password string) (string, int64) {
	t.Helper()

	resp := ts.Register(t, username, email, password)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "registration should succeed")

	token := ts.Login(t, email, password)
	return token, int64(body["account_number"].(float64))
}

func (ts *TestServer) do(t *testing.T, method, path, token, idempotencyKey string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL(path), reader)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// Post sends an authenticated POST with a JSON body.
func (ts *TestServer) Post(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()
	return ts.do(t, http.MethodPost, path, token, "", body)
}

// PostIdempotent sends an authenticated POST carrying an Idempotency-Key.
func (ts *TestServer) PostIdempotent(t *testing.T, path, token, idempotencyKey string, body any) *http.Response {
	t.Helper()
	return ts.do(t, http.MethodPost, path, token, idempotencyKey, body)
}

// Get sends an authenticated GET.
func (ts *TestServer) Get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	return ts.do(t, http.MethodGet, path, token, "", nil)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func decodeBodyList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
