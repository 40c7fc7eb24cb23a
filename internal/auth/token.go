package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken signals a token that failed verification: bad signature,
// malformed payload, or past its expiry.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims carries the subject user id alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256-signed identity tokens. Session
// tokens and password-reset tokens share the signing mechanism and differ
// only in lifetime.
type TokenManager struct {
	secret   []byte
	tokenTTL time.Duration
	resetTTL time.Duration
}

// NewTokenManager constructs a TokenManager from configuration.
func NewTokenManager(secret string, tokenTTL, resetTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), tokenTTL: tokenTTL, resetTTL: resetTTL}
}

// Issue produces a signed session token for the given user.
func (m *TokenManager) Issue(userID uuid.UUID) (string, error) {
	return m.issue(userID, m.tokenTTL)
}

// IssueReset produces a signed password-reset token for the given user.
func (m *TokenManager) IssueReset(userID uuid.UUID) (string, error) {
	return m.issue(userID, m.resetTTL)
}

func (m *TokenManager) issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject user id.
func (m *TokenManager) Verify(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
