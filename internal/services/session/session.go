// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session mints and verifies the signed session credential. Sessions
// are stateless: validity is purely signature plus expiry, nothing is stored
// server-side.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/authcompany/authd/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength guards against trivially brute-forceable HMAC keys.
const minSecretLength = 32

// ErrInvalidToken is returned when a session token fails signature or
// expiry validation.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Manager issues and verifies session cookies.
type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager creates a session manager. An empty secret is replaced with a
// random one, which invalidates all sessions on restart; acceptable for
// development only.
func NewManager(cfg *config.AuthConfig, secure bool) (*Manager, error) {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, minSecretLength)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
	} else if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretLength)
	}

	if cfg.CookieName == "" {
		return nil, errors.New("cookie name is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	return &Manager{
		secret:     secret,
		cookieName: cfg.CookieName,
		ttl:        time.Duration(cfg.SessionTTL) * time.Second,
		secure:     secure,
	}, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Issue mints a signed session token bound to the account id and wraps it in
// a scoped cookie.
func (m *Manager) Issue(accountID string) (*http.Cookie, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}, nil
}

// Clear returns an expired cookie that removes the session artifact.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Verify checks signature and expiry and returns the account id the token
// asserts.
func (m *Manager) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
