// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authcompany/authd/internal/auth"
	"github.com/authcompany/authd/internal/config"
	"github.com/authcompany/authd/internal/middleware"
	"github.com/authcompany/authd/internal/services/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	sessions, err := session.NewManager(&config.AuthConfig{
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		CookieName: "token",
		SessionTTL: 3600,
	}, false)
	require.NoError(t, err)
	return sessions
}

func doRequest(t *testing.T, sessions *session.Manager, cookie *http.Cookie) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()

	var seenID string
	handler := middleware.RequireAuth(sessions)(func(c echo.Context) error {
		seenID = auth.AccountID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec, seenID
}

func TestRequireAuth(t *testing.T) {
	sessions := newSessions(t)
	cookie, err := sessions.Issue("user-42")
	require.NoError(t, err)

	rec, seenID := doRequest(t, sessions, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", seenID)
}

func TestRequireAuth_NoCookie(t *testing.T) {
	rec, seenID := doRequest(t, newSessions(t), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, seenID)
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, rec.Body.String())
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	rec, seenID := doRequest(t, newSessions(t), &http.Cookie{Name: "token", Value: "not-a-jwt"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, seenID)
}

func TestRequireAuth_ForeignSecret(t *testing.T) {
	sessions := newSessions(t)

	other, err := session.NewManager(&config.AuthConfig{
		JWTSecret:  "ffffffffffffffffffffffffffffffff",
		CookieName: "token",
		SessionTTL: 3600,
	}, false)
	require.NoError(t, err)
	cookie, err := other.Issue("user-42")
	require.NoError(t, err)

	rec, seenID := doRequest(t, sessions, cookie)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, seenID)
}
