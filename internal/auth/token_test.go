package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proshop-store/proshop-api/internal/auth"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := auth.NewTokenManager("secret", time.Hour, time.Hour)
	userID := uuid.New()

	token, err := m.Issue(userID)
	require.NoError(t, err)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := auth.NewTokenManager("secret", -time.Minute, -time.Minute)
	token, err := m.Issue(uuid.New())
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	m := auth.NewTokenManager("secret", time.Hour, time.Hour)
	token, err := m.Issue(uuid.New())
	require.NoError(t, err)

	// Flip one character in the middle of the payload.
	mid := len(token) / 2
	altered := byte('A')
	if token[mid] == altered {
		altered = 'B'
	}
	tampered := token[:mid] + string(altered) + token[mid+1:]

	_, err = m.Verify(tampered)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", time.Hour, time.Hour)
	verifier := auth.NewTokenManager("secret-b", time.Hour, time.Hour)

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	m := auth.NewTokenManager("secret", time.Hour, time.Hour)

	_, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResetTokenUsesOwnTTL(t *testing.T) {
	m := auth.NewTokenManager("secret", time.Hour, -time.Minute)
	token, err := m.IssueReset(uuid.New())
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
