package domain

import (
	"errors"
	"time"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUnauthorized = errors.New("unauthorized")

	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// User models a registered account.
//
// RefreshToken holds the single currently valid refresh token, or the empty
// string when the user is logged out. Overwriting it on login (and clearing
// it on logout) is what revokes previously issued refresh tokens.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
