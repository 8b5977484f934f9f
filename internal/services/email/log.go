// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"log/slog"
)

// LogMailer logs outbound mail instead of sending it. Used when no SMTP
// host is configured, so the server stays usable in development.
type LogMailer struct{}

func (LogMailer) SendVerification(_ context.Context, to, _, code string) error {
	slog.Info("mail_not_sent", "kind", "verification", "to", to, "code", code)
	return nil
}

func (LogMailer) SendWelcome(_ context.Context, to, _ string) error {
	slog.Info("mail_not_sent", "kind", "welcome", "to", to)
	return nil
}

func (LogMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	slog.Info("mail_not_sent", "kind", "password-reset-request", "to", to, "reset_url", resetURL)
	return nil
}

func (LogMailer) SendResetSuccess(_ context.Context, to string) error {
	slog.Info("mail_not_sent", "kind", "password-reset-success", "to", to)
	return nil
}
