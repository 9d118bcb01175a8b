package auth_test

import (
	"strings"
	"testing"

	"github.com/shurlix/shurlix/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Run("verifies the original password", func(t *testing.T) {
		hash, err := auth.HashPassword("correct horse battery staple")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
		assert.True(t, auth.VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		hash, err := auth.HashPassword("correct horse battery staple")
		require.NoError(t, err)

		assert.False(t, auth.VerifyPassword("wrong", hash))
	})

	t.Run("rejects a malformed hash", func(t *testing.T) {
		assert.False(t, auth.VerifyPassword("anything", "not-a-hash"))
	})
}

func TestPasswordScore(t *testing.T) {
	weak := auth.PasswordScore("password")
	strong := auth.PasswordScore("correct horse battery staple")

	assert.GreaterOrEqual(t, weak, 0)
	assert.LessOrEqual(t, strong, 4)
	assert.Greater(t, strong, weak)
}
