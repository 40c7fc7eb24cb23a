package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proshop-store/proshop-api/internal/auth"
)

func TestHashPasswordSalted(t *testing.T) {
	first, err := auth.HashPassword("correcthorse")
	require.NoError(t, err)
	second, err := auth.HashPassword("correcthorse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same plaintext must differ")
	assert.NotContains(t, first, "correcthorse")
}

func TestCheckPassword(t *testing.T) {
	digest, err := auth.HashPassword("pw1")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword("pw1", digest))
	assert.False(t, auth.CheckPassword("pw2", digest))
	assert.False(t, auth.CheckPassword("", digest))
}

func TestCheckPasswordMalformedDigest(t *testing.T) {
	assert.False(t, auth.CheckPassword("pw1", ""))
	assert.False(t, auth.CheckPassword("pw1", "not-a-bcrypt-digest"))
}
