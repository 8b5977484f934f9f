// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package account implements the account lifecycle: signup with email
// verification, login, and the forgot/reset password cycle.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/authcompany/authd/internal/models"
	"github.com/authcompany/authd/internal/repository"
	"github.com/authcompany/authd/internal/services/password"
	"github.com/authcompany/authd/internal/services/token"
)

var (
	// ErrMissingFields is returned when required signup or reset input is empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrUserExists is returned when signing up with a verified email.
	ErrUserExists = errors.New("user already exists")
	// ErrUserExistsUnverified is returned when signing up with an email that
	// exists but is not verified yet; the verification code has been
	// regenerated and resent.
	ErrUserExistsUnverified = errors.New("account already exists but is not verified")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password, so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOrExpiredToken is returned when a verification or reset token
	// matches no live record.
	ErrInvalidOrExpiredToken = errors.New("invalid token or token expired")
	// ErrUserNotFound is returned when the forgot-password or check-auth
	// target does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthenticated is returned when an operation requiring identity is
	// invoked without one.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// NotificationError wraps a mail dispatch failure that happened after the
// state transition was already persisted.
type NotificationError struct {
	Kind string
	Err  error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("sending %s email: %v", e.Kind, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Mailer dispatches lifecycle notifications. Implementations are treated as
// a best-effort, failable side-effect channel.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, code string) error
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
	SendResetSuccess(ctx context.Context, to string) error
}

// Service is the account lifecycle state machine. All reads and writes go
// through the repository; it performs no locking of its own and relies on
// the store's per-record write atomicity.
type Service struct {
	repo      *repository.Repository
	mailer    Mailer
	clientURL string
}

// NewService creates the account service. clientURL is the frontend base URL
// reset links point at.
func NewService(repo *repository.Repository, mailer Mailer, clientURL string) *Service {
	return &Service{
		repo:      repo,
		mailer:    mailer,
		clientURL: strings.TrimSuffix(clientURL, "/"),
	}
}

// Signup creates an unverified account and sends the verification code. For
// an existing unverified account the code is regenerated and resent and
// ErrUserExistsUnverified is returned; for a verified one, ErrUserExists.
// A verification send failure is surfaced to the caller because the user has
// no other way to obtain the code.
func (s *Service) Signup(ctx context.Context, email, pass, name string) (*models.User, error) {
	if email == "" || pass == "" || name == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		if !existing.IsVerified {
			if resendErr := s.resendVerification(ctx, existing); resendErr != nil {
				return nil, resendErr
			}
			return nil, ErrUserExistsUnverified
		}
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return nil, err
	}

	code, expiresAt, err := token.NewVerificationCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:                 email,
		Name:                  name,
		PasswordHash:          hash,
		VerificationToken:     &code,
		VerificationExpiresAt: &expiresAt,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, user.Email, user.Name, code); err != nil {
		// The account is already committed; the caller decides how to surface
		// the missing code.
		return nil, &NotificationError{Kind: "verification", Err: err}
	}

	slog.Info("signup_success", "user_id", user.ID, "email", email)
	return user, nil
}

// resendVerification overwrites the pending verification code, invalidating
// the previous one, and resends the email.
func (s *Service) resendVerification(ctx context.Context, user *models.User) error {
	code, expiresAt, err := token.NewVerificationCode()
	if err != nil {
		return err
	}
	if err := s.repo.SetVerificationToken(ctx, user.ID, code, expiresAt); err != nil {
		return fmt.Errorf("failed to update verification token: %w", err)
	}
	if err := s.mailer.SendVerification(ctx, user.Email, user.Name, code); err != nil {
		return &NotificationError{Kind: "verification", Err: err}
	}
	slog.Info("verification_resent", "user_id", user.ID, "email", user.Email)
	return nil
}

// VerifyEmail consumes a verification code. The code is single-use: after a
// successful verification the same code matches no live record.
func (s *Service) VerifyEmail(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.repo.GetUserByVerificationToken(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to look up verification token: %w", err)
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}
	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationExpiresAt = nil

	// Verification is already committed; a welcome send failure must not
	// roll it back.
	if err := s.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
		slog.Warn("welcome_email_failed", "user_id", user.ID, "error", err)
	}

	slog.Info("email_verified", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks the credentials and records the login time. Unknown email and
// wrong password are indistinguishable to the caller. Verification status is
// not required.
func (s *Service) Login(ctx context.Context, email, pass string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform a bcrypt comparison to prevent
			// timing attacks
			password.DummyCompare(pass)
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !password.Verify(pass, user.PasswordHash) {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, nil
}

// ForgotPassword issues a reset token and mails the reset link. Issuing a
// new token overwrites any prior one. A send failure is surfaced because the
// user has no other way to obtain the link.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	tok, expiresAt, err := token.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.repo.SetResetToken(ctx, user.ID, tok, expiresAt); err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, tok)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return &NotificationError{Kind: "password-reset-request", Err: err}
	}

	slog.Info("password_reset_requested", "user_id", user.ID, "email", email)
	return nil
}

// ResetPassword consumes a reset token and replaces the stored hash. The
// token is cleared in the same write, so replaying it yields
// ErrInvalidOrExpiredToken.
func (s *Service) ResetPassword(ctx context.Context, tok, newPassword string) error {
	if tok == "" {
		return ErrInvalidOrExpiredToken
	}
	if newPassword == "" {
		return ErrMissingFields
	}

	user, err := s.repo.GetUserByResetToken(ctx, tok, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// The new password is already committed; a confirmation send failure
	// must not surface as a reset failure.
	if err := s.mailer.SendResetSuccess(ctx, user.Email); err != nil {
		slog.Warn("reset_success_email_failed", "user_id", user.ID, "error", err)
	}

	slog.Info("password_reset", "user_id", user.ID, "email", user.Email)
	return nil
}

// CheckAuth loads the account behind a pre-authenticated identity extracted
// from the session credential by the transport layer.
func (s *Service) CheckAuth(ctx context.Context, accountID string) (*models.User, error) {
	if accountID == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.GetUserByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
