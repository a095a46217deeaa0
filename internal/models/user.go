package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an administrator account. The settlement core itself is
// single-administrator; users exist only so the HTTP surface can gate
// mutating operations behind a login.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique). Used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and timestamp.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
