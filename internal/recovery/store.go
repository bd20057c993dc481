// Package recovery stores pending password-recovery sessions in Redis.
package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/minibank/bank/internal/models"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoSession indicates no active recovery session for the token
	ErrNoSession = errors.New("no active recovery session")

	// ErrOTPMismatch indicates the submitted OTP did not match; the session
	// stays intact so the caller may retry
	ErrOTPMismatch = errors.New("otp mismatch")
)

// consumeScript compares the stored OTP and deletes the session only on an
// exact match, so check-and-consume is a single atomic step.
var consumeScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return ""
end
local session = cjson.decode(raw)
if session.otp ~= ARGV[1] then
  return "MISMATCH"
end
redis.call("DEL", KEYS[1])
return raw
`)

// Store holds recovery sessions keyed by opaque token
type Store interface {
	Put(ctx context.Context, token string, session models.RecoverySession, ttl time.Duration) error
	Consume(ctx context.Context, token, otp string) (*models.RecoverySession, error)
	Delete(ctx context.Context, token string) error
}

// RedisStore is the Redis implementation of Store
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Store over the given client
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "recovery:session",
	}
}

func (s *RedisStore) key(token string) string {
	return fmt.Sprintf("%s:%s", s.prefix, token)
}

// Put stores the session under the token with the given TTL, replacing any
// previous session for the same token.
func (s *RedisStore) Put(ctx context.Context, token string, session models.RecoverySession, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal recovery session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store recovery session: %w", err)
	}

	return nil
}

// Consume atomically checks the OTP and removes the session on success.
// A mismatch leaves the session in place and returns ErrOTPMismatch.
func (s *RedisStore) Consume(ctx context.Context, token, otp string) (*models.RecoverySession, error) {
	raw, err := consumeScript.Run(ctx, s.client, []string{s.key(token)}, otp).Text()
	if err != nil {
		return nil, fmt.Errorf("failed to consume recovery session: %w", err)
	}

	switch raw {
	case "":
		return nil, ErrNoSession
	case "MISMATCH":
		return nil, ErrOTPMismatch
	}

	var session models.RecoverySession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recovery session: %w", err)
	}

	return &session, nil
}

// Delete removes the session, abandoning the recovery flow
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete recovery session: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
