package ports

import (
	"context"

	"github.com/studykit/planner-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
//
// UpdateRefreshToken must be a single-field atomic write scoped to the user
// record; an empty token clears the stored value.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateRefreshToken(ctx context.Context, id, token string) error
}
