// Package users implements the account flows: registration, login,
// self-service profile, admin management and the password-reset cycle.
package users

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted account record. PasswordHash always holds a bcrypt
// digest, never raw input. ResetToken is empty except between a
// forgot-password request and its consumption.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	ResetToken   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
