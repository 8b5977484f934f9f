// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware contains the HTTP middleware for request authentication.
package middleware

import (
	"net/http"

	"github.com/authcompany/authd/internal/auth"
	"github.com/authcompany/authd/internal/services/session"
	"github.com/labstack/echo/v4"
)

// RequireAuth verifies the session cookie and puts the asserted account id
// into the request context. Requests without a valid session credential are
// answered with 401 before any handler runs.
func RequireAuth(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessions.CookieName())
			if err != nil || cookie.Value == "" {
				return unauthorized(c)
			}

			accountID, err := sessions.Verify(cookie.Value)
			if err != nil {
				return unauthorized(c)
			}

			ctx := auth.WithAccountID(c.Request().Context(), accountID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": "Unauthorized",
	})
}
