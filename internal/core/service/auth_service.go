package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

// AuthService implements the session lifecycle: registration, login with
// dual-token issuance, refresh with stored-token revocation checks, and
// best-effort logout.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	// Username defaults to the email address when the client omits it.
	if input.Username == "" {
		input.Username = input.Email
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same error as a wrong password; see domain.ErrInvalidCredentials.
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, nil, err
	}

	// Overwriting the stored value enforces a single active session per user:
	// any refresh token issued by an earlier login stops working here and now.
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.ErrUnauthorized
	}

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}

	// A cryptographically valid token that no longer matches the stored value
	// has been superseded by a later login or cleared by logout. This check is
	// the revocation mechanism.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return "", domain.ErrUnauthorized
	}

	// The refresh token is not rotated; it stays valid until the next login
	// or logout.
	return s.tokens.IssueAccess(user.ID)
}

func (s *AuthService) Logout(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if err := s.repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		// The client-visible contract of logout is unconditional success.
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear refresh token")
	}
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
