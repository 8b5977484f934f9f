// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/authcompany/authd/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSON_RedactsCredentials(t *testing.T) {
	token := "123456"
	expires := time.Now().Add(24 * time.Hour)
	user := models.User{
		ID:                    "11111111-2222-3333-4444-555555555555",
		Email:                 "a@x.com",
		Name:                  "A",
		PasswordHash:          "$2a$10$secret",
		VerificationToken:     &token,
		VerificationExpiresAt: &expires,
		ResetToken:            &token,
		ResetExpiresAt:        &expires,
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.NotContains(t, fields, "password_hash")
	assert.NotContains(t, fields, "verification_token")
	assert.NotContains(t, fields, "verification_expires_at")
	assert.NotContains(t, fields, "reset_token")
	assert.NotContains(t, fields, "reset_expires_at")
	assert.NotContains(t, string(data), "secret")
	assert.Equal(t, "a@x.com", fields["email"])
}

func TestUserJSON_OmitsEmptyLastLogin(t *testing.T) {
	user := models.User{ID: "id", Email: "a@x.com", Name: "A"}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.NotContains(t, fields, "last_login")
}
