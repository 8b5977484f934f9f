// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/authcompany/authd/internal/models"
	"github.com/labstack/echo/v4"
)

func respond(c echo.Context, status int, message string, user *models.User) error {
	return c.JSON(status, Response{Success: true, Message: message, User: user})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: false, Message: message})
}

// unexpected logs an unexpected failure with operation context and answers
// with a generic message, or the error text when debug errors are enabled.
func (h *AuthHandlers) unexpected(c echo.Context, op string, err error) error {
	slog.Error("unexpected_error", "op", op, "error", err)

	message := "Server error"
	if h.debugErrors {
		message = err.Error()
	}
	return fail(c, http.StatusInternalServerError, message)
}
