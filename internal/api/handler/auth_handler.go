package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studykit/planner-api/internal/api/metrics"
	"github.com/studykit/planner-api/internal/api/middleware"
	"github.com/studykit/planner-api/internal/core/domain"
	"github.com/studykit/planner-api/internal/core/ports"
)

// RefreshTokenCookie carries the refresh token; httpOnly so script cannot
// read it, and scoped to the auth routes.
const RefreshTokenCookie = "refreshToken"

// CookieConfig controls the attributes of the auth cookies.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	service ports.AuthService
	tokens  ports.TokenVerifier
	cookies CookieConfig
}

func NewAuthHandler(service ports.AuthService, tokens ports.TokenVerifier, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, cookies: cookies}
}

// Register creates a new account. No tokens are issued; the client logs in
// separately.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if err == domain.ErrUserExists || err == domain.ErrEmailExists {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "user created successfully",
		User:    toUserResponse(user),
	})
}

// Login verifies credentials and issues both tokens. The refresh token is
// set only as an httpOnly cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, user, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		}
		return err
	}

	h.setCookie(c, middleware.AccessTokenCookie, pair.AccessToken, h.cookies.AccessTTL)
	h.setCookie(c, RefreshTokenCookie, pair.RefreshToken, h.cookies.RefreshTTL)

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: pair.AccessToken,
		User:        toUserResponse(user),
	})
}

// Refresh exchanges a valid, still-current refresh token for a new access
// token. The refresh token is read from the cookie first, then the body.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Body fallback for the refresh cookie"
// @Success      200   {object}  refreshResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}

	access, err := h.service.Refresh(c.Request().Context(), token)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("unauthorized").Inc()
		return err
	}

	h.setCookie(c, middleware.AccessTokenCookie, access, h.cookies.AccessTTL)

	metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, refreshResponse{AccessToken: access})
}

// Logout clears the session. It always reports success: the stored refresh
// token is cleared best-effort, the cookies unconditionally.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		if userID, err := h.tokens.VerifyRefresh(cookie.Value); err == nil {
			h.service.Logout(c.Request().Context(), userID)
		}
	}

	h.setCookie(c, middleware.AccessTokenCookie, "", -time.Second)
	h.setCookie(c, RefreshTokenCookie, "", -time.Second)

	return c.JSON(http.StatusOK, messageResponse{Message: "logged out successfully"})
}

// Me returns the authenticated user's public profile.
//
// @Summary      Get the current user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) setCookie(c echo.Context, name, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	}
	c.SetCookie(cookie)
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
	}
}
