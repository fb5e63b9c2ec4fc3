package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studykit/planner-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrUserExists, http.StatusBadRequest, "user already exists"},
		{domain.ErrEmailExists, http.StatusBadRequest, "email already exists"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrTokenExpired, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrTokenMalformed, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrTokenSignatureInvalid, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrEntryNotFound, http.StatusNotFound, "timetable entry not found"},
		{domain.ErrChatNotFound, http.StatusNotFound, "chat not found"},
		{domain.ErrInvalidTimeRange, http.StatusBadRequest, domain.ErrInvalidTimeRange.Error()},
		{domain.ErrOutsideWindow, http.StatusBadRequest, domain.ErrOutsideWindow.Error()},
	}

	for _, tc := range cases {
		code, msg := renderError(t, tc.err)
		if code != tc.code || msg != tc.msg {
			t.Fatalf("%v: expected %d %q, got %d %q", tc.err, tc.code, tc.msg, code, msg)
		}
	}
}

func TestHTTPErrorHandler_TokenErrorsDoNotLeakDetail(t *testing.T) {
	// Every token failure renders the same body so the response does not
	// reveal whether a token was expired, forged, or garbage.
	reference, refMsg := renderError(t, domain.ErrTokenExpired)
	for _, err := range []error{domain.ErrTokenMalformed, domain.ErrTokenSignatureInvalid, domain.ErrUnauthorized} {
		code, msg := renderError(t, err)
		if code != reference || msg != refMsg {
			t.Fatalf("%v: expected %d %q, got %d %q", err, reference, refMsg, code, msg)
		}
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest || msg != "invalid payload" {
		t.Fatalf("expected 400 invalid payload, got %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	code, msg := renderError(t, errors.New("mongo: socket closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("update refresh token"), domain.ErrUserNotFound)
	code, _ := renderError(t, wrapped)
	if code != http.StatusNotFound {
		t.Fatalf("expected wrapped domain error to map, got %d", code)
	}
}
