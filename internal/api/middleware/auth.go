package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/studykit/planner-api/internal/core/ports"
)

// AccessTokenCookie is the cookie the login handler sets and the extractor
// chain reads.
const AccessTokenCookie = "accessToken"

// ContextUserID is the echo context key carrying the authenticated user id.
const ContextUserID = "user_id"

// extractor pulls a candidate token from the request, or returns "".
type extractor func(c echo.Context) string

// Extractors are tried in order; the bearer header wins over the cookie when
// both are present. All candidates flow through the same verification path.
var extractors = []extractor{
	fromAuthHeader,
	fromCookie(AccessTokenCookie),
}

// Auth verifies the access token and injects the subject id into the context.
// No user lookup happens here; handlers that need the full record fetch it.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			for _, extract := range extractors {
				if token = extract(c); token != "" {
					break
				}
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}

			userID, err := verifier.VerifyAccess(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextUserID, userID)
			return next(c)
		}
	}
}

func fromAuthHeader(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func fromCookie(name string) extractor {
	return func(c echo.Context) string {
		cookie, err := c.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}
