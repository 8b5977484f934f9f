// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/authcompany/authd/internal/models"
	"github.com/google/uuid"
)

// CreateUser inserts a new user. A missing ID is assigned, the creation and
// update timestamps are set, and all timestamps are stored in UTC so that
// the text-based expiry comparisons stay correct.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.VerificationExpiresAt = utc(user.VerificationExpiresAt)
	user.ResetExpiresAt = utc(user.ResetExpiresAt)
	user.LastLogin = utc(user.LastLogin)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, is_verified,
		    verification_token, verification_expires_at, reset_token,
		    reset_expires_at, last_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.IsVerified,
		user.VerificationToken, user.VerificationExpiresAt, user.ResetToken,
		user.ResetExpiresAt, user.LastLogin, user.CreatedAt, user.UpdatedAt)
	return err
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email address (exact match).
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByVerificationToken retrieves the user holding a still-valid
// verification code.
func (r *Repository) GetUserByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT * FROM users WHERE verification_token = ? AND verification_expires_at > ?`,
		token, now.UTC())
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByResetToken retrieves the user holding a still-valid password
// reset token.
func (r *Repository) GetUserByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT * FROM users WHERE reset_token = ? AND reset_expires_at > ?`,
		token, now.UTC())
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// SetVerificationToken overwrites the verification code and its expiry.
// Any previously issued code becomes invalid.
func (r *Repository) SetVerificationToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET verification_token = ?, verification_expires_at = ?, updated_at = ? WHERE id = ?`,
		token, expiresAt.UTC(), time.Now().UTC(), id)
	return err
}

// MarkVerified flags the user as verified and clears the verification fields.
func (r *Repository) MarkVerified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_verified = 1, verification_token = NULL,
		    verification_expires_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	return err
}

// SetResetToken overwrites the password reset token and its expiry.
func (r *Repository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_token = ?, reset_expires_at = ?, updated_at = ? WHERE id = ?`,
		token, expiresAt.UTC(), time.Now().UTC(), id)
	return err
}

// UpdatePassword replaces the stored password hash and clears the reset
// fields in the same statement, enforcing single use of the reset token.
func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, reset_token = NULL,
		    reset_expires_at = NULL, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	return err
}

// UpdateLastLogin records a successful login.
func (r *Repository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), id)
	return err
}
