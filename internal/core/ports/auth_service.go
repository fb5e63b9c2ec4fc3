package ports

import (
	"context"

	"github.com/studykit/planner-api/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Password string
}

// TokenPair is returned by Login. The refresh token is transported to the
// client only as an httpOnly cookie, never in a response body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService defines the session lifecycle use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, *domain.User, error)
	// Refresh exchanges a still-valid, still-current refresh token for a new
	// access token. The refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout clears the stored refresh token. Best effort: persistence
	// failures are logged, not returned.
	Logout(ctx context.Context, userID string)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
