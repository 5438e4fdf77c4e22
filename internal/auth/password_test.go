package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rentals-api/internal/auth"
)

func TestBcryptGuard(t *testing.T) {
	guard := auth.NewBcryptGuard(bcrypt.MinCost)

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		hash1, err := guard.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := guard.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
		assert.True(t, strings.HasPrefix(hash1, "$2"))
	})

	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := guard.Hash("correctpassword")
		require.NoError(t, err)
		assert.True(t, guard.Verify("correctpassword", hash))
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		hash, err := guard.Hash("correctpassword")
		require.NoError(t, err)
		assert.False(t, guard.Verify("wrongpassword", hash))
	})

	t.Run("malformed hash fails without error", func(t *testing.T) {
		assert.False(t, guard.Verify("password", "not-a-valid-hash"))
		assert.False(t, guard.Verify("password", ""))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := guard.Hash("")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("accepts exactly 72 bytes", func(t *testing.T) {
		password := strings.Repeat("a", auth.MaxPasswordBytes)
		hash, err := guard.Hash(password)
		require.NoError(t, err)
		assert.True(t, guard.Verify(password, hash))
	})

	t.Run("rejects passwords over 72 bytes", func(t *testing.T) {
		_, err := guard.Hash(strings.Repeat("a", 80))
		assert.ErrorIs(t, err, auth.ErrPasswordTooLong)

		// 25 three-byte runes
		_, err = guard.Hash(strings.Repeat("€", 25))
		assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
	})
}

func TestNewBcryptGuard_CostFallback(t *testing.T) {
	guard := auth.NewBcryptGuard(0)
	hash, err := guard.Hash("password1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestIdentityContext(t *testing.T) {
	ctx := auth.WithIdentity(t.Context(), auth.Identity{UserID: "u1"})
	id, ok := auth.IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)

	_, ok = auth.IdentityFrom(t.Context())
	assert.False(t, ok)
}
