package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndValidate(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		accountID := uuid.New()

		token, err := manager.Issue(accountID, true)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := manager.Validate(token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)

		got, err := claims.AccountID()
		require.NoError(t, err)
		assert.Equal(t, accountID, got)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token, err := manager.Issue(uuid.New(), false)
		require.NoError(t, err)

		other := NewTokenManager("other-secret", time.Hour)
		claims, err := other.Validate(token)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := NewTokenManager("test-secret", -time.Minute)

		token, err := expired.Issue(uuid.New(), false)
		require.NoError(t, err)

		claims, err := manager.Validate(token)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		claims, err := manager.Validate("not-a-token")

		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}
