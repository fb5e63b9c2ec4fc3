package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studykit/planner-api/internal/api/middleware"
)

// ctxUserID extracts the subject id injected by the Auth middleware. Its
// presence proves the middleware ran; a protected route reached without it is
// a wiring bug surfaced as 401 rather than a panic downstream.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
