// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/authcompany/authd/internal/config"
	"github.com/authcompany/authd/internal/services/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSecret is a valid 32-byte signing secret for tests.
const testSecret = "0123456789abcdef0123456789abcdef"

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:  testSecret,
		CookieName: "token",
		SessionTTL: 604800, // 7 days
	}
}

func TestNewManager(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)

	require.NoError(t, err)
	assert.NotNil(t, mgr)
	assert.Equal(t, "token", mgr.CookieName())
}

func TestNewManager_ShortSecret(t *testing.T) {
	cfg := newTestConfig()
	cfg.JWTSecret = "too-short"

	_, err := session.NewManager(cfg, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestNewManager_EmptySecret_Generates(t *testing.T) {
	cfg := newTestConfig()
	cfg.JWTSecret = ""

	mgr, err := session.NewManager(cfg, false)

	require.NoError(t, err)
	assert.NotNil(t, mgr)
}

func TestNewManager_MissingCookieName(t *testing.T) {
	cfg := newTestConfig()
	cfg.CookieName = ""

	_, err := session.NewManager(cfg, false)

	require.Error(t, err)
}

func TestNewManager_NonPositiveTTL(t *testing.T) {
	cfg := newTestConfig()
	cfg.SessionTTL = 0

	_, err := session.NewManager(cfg, false)

	require.Error(t, err)
}

func TestIssue(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	cookie, err := mgr.Issue("account-1")

	require.NoError(t, err)
	assert.Equal(t, "token", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 604800, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestIssue_Secure(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), true)
	require.NoError(t, err)

	cookie, err := mgr.Issue("account-1")

	require.NoError(t, err)
	assert.True(t, cookie.Secure)
}

func TestVerify_RoundTrip(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	cookie, err := mgr.Issue("account-1")
	require.NoError(t, err)

	accountID, err := mgr.Verify(cookie.Value)

	require.NoError(t, err)
	assert.Equal(t, "account-1", accountID)
}

func TestVerify_Garbage(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	_, err = mgr.Verify("not-a-jwt")

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestVerify_WrongKey(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	other := newTestConfig()
	other.JWTSecret = "ffffffffffffffffffffffffffffffff"
	otherMgr, err := session.NewManager(other, false)
	require.NoError(t, err)

	cookie, err := otherMgr.Issue("account-1")
	require.NoError(t, err)

	_, err = mgr.Verify(cookie.Value)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Subject:   "account-1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = mgr.Verify(expired)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestVerify_MissingSubject(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = mgr.Verify(anonymous)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestClear(t *testing.T) {
	mgr, err := session.NewManager(newTestConfig(), false)
	require.NoError(t, err)

	cookie := mgr.Clear()

	assert.Equal(t, "token", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}
