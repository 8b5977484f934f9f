// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/authcompany/authd/internal/auth"
	"github.com/authcompany/authd/internal/services/account"
	"github.com/authcompany/authd/internal/services/session"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for the account lifecycle operations.
type AuthHandlers struct {
	accounts    *account.Service
	sessions    *session.Manager
	debugErrors bool
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(accounts *account.Service, sessions *session.Manager, debugErrors bool) *AuthHandlers {
	return &AuthHandlers{
		accounts:    accounts,
		sessions:    sessions,
		debugErrors: debugErrors,
	}
}

// SignupRequest is the request body for signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup creates an account and attaches a session to the response. The
// session is issued before verification by design.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.accounts.Signup(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrMissingFields):
			return fail(c, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, account.ErrUserExistsUnverified):
			return fail(c, http.StatusBadRequest,
				"Account already exists but is not verified. Verification email resent.")
		case errors.Is(err, account.ErrUserExists):
			return fail(c, http.StatusBadRequest, "User already exists")
		default:
			return h.unexpected(c, "signup", err)
		}
	}

	if err := h.attachSession(c, user.ID); err != nil {
		return h.unexpected(c, "signup", err)
	}
	return respond(c, http.StatusCreated, "User created successfully", user)
}

// VerifyEmailRequest is the request body for email verification.
type VerifyEmailRequest struct {
	Code string `json:"code"`
}

// VerifyEmail consumes a verification code.
func (h *AuthHandlers) VerifyEmail(c echo.Context) error {
	var req VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.accounts.VerifyEmail(c.Request().Context(), req.Code)
	if err != nil {
		if errors.Is(err, account.ErrInvalidOrExpiredToken) {
			return fail(c, http.StatusBadRequest, "Invalid verification token or token expired")
		}
		return h.unexpected(c, "verify_email", err)
	}

	return respond(c, http.StatusOK, "Email verified successfully", user)
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an account and attaches a session to the response.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return fail(c, http.StatusBadRequest, "Invalid credentials")
		}
		return h.unexpected(c, "login", err)
	}

	if err := h.attachSession(c, user.ID); err != nil {
		return h.unexpected(c, "login", err)
	}
	return respond(c, http.StatusOK, "Logged in successfully", user)
}

// Logout clears the session cookie. Always succeeds.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return respond(c, http.StatusOK, "User logged out successfully", nil)
}

// ForgotPasswordRequest is the request body for forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token and mails the reset link.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := h.accounts.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return fail(c, http.StatusBadRequest, "User not found")
		}
		return h.unexpected(c, "forgot_password", err)
	}

	return respond(c, http.StatusOK, "Reset password link sent to your email", nil)
}

// ResetPasswordRequest is the request body for reset-password.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword consumes the reset token from the URL path and replaces the
// account password.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	err := h.accounts.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidOrExpiredToken):
			return fail(c, http.StatusBadRequest, "Invalid token or token expired")
		case errors.Is(err, account.ErrMissingFields):
			return fail(c, http.StatusBadRequest, "Password is required")
		default:
			return h.unexpected(c, "reset_password", err)
		}
	}

	return respond(c, http.StatusOK, "Password reset successfully", nil)
}

// CheckAuth returns the account behind the authenticated session.
func (h *AuthHandlers) CheckAuth(c echo.Context) error {
	accountID := auth.AccountID(c.Request().Context())

	user, err := h.accounts.CheckAuth(c.Request().Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUnauthenticated):
			return fail(c, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, account.ErrUserNotFound):
			return fail(c, http.StatusUnauthorized, "User not found")
		default:
			return h.unexpected(c, "check_auth", err)
		}
	}

	return respond(c, http.StatusOK, "Authenticated", user)
}

// attachSession issues a session for the account and sets the cookie.
func (h *AuthHandlers) attachSession(c echo.Context, accountID string) error {
	cookie, err := h.sessions.Issue(accountID)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	slog.Debug("session_issued", "user_id", accountID)
	return nil
}
