// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/authcompany/authd/internal/database"
	"github.com/authcompany/authd/internal/models"
	"github.com/authcompany/authd/internal/repository"
	"github.com/authcompany/authd/internal/services/password"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates an unverified user with the given plaintext password.
func NewTestUser(t *testing.T, repo *repository.Repository, email, plaintext string) *models.User {
	t.Helper()
	hash, err := password.Hash(plaintext)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// SentMail records one dispatched notification.
type SentMail struct {
	Kind     string // verification, welcome, password-reset-request, password-reset-success
	To       string
	Name     string
	Code     string
	ResetURL string
}

// Mailer is a recording fake for account.Mailer. Kinds listed in Fail
// report a send failure.
type Mailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Fail map[string]bool
}

func (m *Mailer) record(mail SentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail[mail.Kind] {
		return fmt.Errorf("smtp unavailable")
	}
	m.Sent = append(m.Sent, mail)
	return nil
}

func (m *Mailer) SendVerification(_ context.Context, to, name, code string) error {
	return m.record(SentMail{Kind: "verification", To: to, Name: name, Code: code})
}

func (m *Mailer) SendWelcome(_ context.Context, to, name string) error {
	return m.record(SentMail{Kind: "welcome", To: to, Name: name})
}

func (m *Mailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	return m.record(SentMail{Kind: "password-reset-request", To: to, ResetURL: resetURL})
}

func (m *Mailer) SendResetSuccess(_ context.Context, to string) error {
	return m.record(SentMail{Kind: "password-reset-success", To: to})
}

// LastOfKind returns the most recent sent mail of the given kind, or nil.
func (m *Mailer) LastOfKind(kind string) *SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].Kind == kind {
			mail := m.Sent[i]
			return &mail
		}
	}
	return nil
}

// CountOfKind returns how many mails of the given kind were sent.
func (m *Mailer) CountOfKind(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, mail := range m.Sent {
		if mail.Kind == kind {
			n++
		}
	}
	return n
}
