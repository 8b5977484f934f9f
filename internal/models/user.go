// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"time"
)

// User is the durable account record. The password hash and the lifecycle
// token columns never serialize to JSON; the marshaled form is the
// client-facing account view.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                    string     `db:"id" json:"id"`
	Email                 string     `db:"email" json:"email"`
	Name                  string     `db:"name" json:"name"`
	PasswordHash          string     `db:"password_hash" json:"-"`
	IsVerified            bool       `db:"is_verified" json:"is_verified"`
	VerificationToken     *string    `db:"verification_token" json:"-"`
	VerificationExpiresAt *time.Time `db:"verification_expires_at" json:"-"`
	ResetToken            *string    `db:"reset_token" json:"-"`
	ResetExpiresAt        *time.Time `db:"reset_expires_at" json:"-"`
	LastLogin             *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}
