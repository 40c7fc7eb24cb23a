// Package auth provides password hashing, signed identity tokens and the
// request-level authentication gate.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with a randomized salt.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches the stored digest.
// Malformed digests verify as false rather than erroring.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
