// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends account lifecycle notifications via SMTP.
package email

import (
	"context"
	"fmt"

	"github.com/authcompany/authd/internal/config"
	"github.com/wneessen/go-mail"
)

// Service sends lifecycle emails. It satisfies account.Mailer.
type Service struct {
	cfg *config.SMTPConfig
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{cfg: cfg}, nil
}

// SendVerification sends the email verification code.
func (s *Service) SendVerification(ctx context.Context, to, name, code string) error {
	body, err := render(verificationTmpl, struct{ Name, Code string }{name, code})
	if err != nil {
		return err
	}
	return s.send(ctx, to, subjectVerification, body)
}

// SendWelcome sends the post-verification welcome email.
func (s *Service) SendWelcome(ctx context.Context, to, name string) error {
	body, err := render(welcomeTmpl, struct{ Name string }{name})
	if err != nil {
		return err
	}
	return s.send(ctx, to, subjectWelcome, body)
}

// SendPasswordReset sends the reset link for a password reset request.
func (s *Service) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	body, err := render(resetRequestTmpl, struct{ ResetURL string }{resetURL})
	if err != nil {
		return err
	}
	return s.send(ctx, to, subjectReset, body)
}

// SendResetSuccess confirms a completed password reset.
func (s *Service) SendResetSuccess(ctx context.Context, to string) error {
	body, err := render(resetSuccessTmpl, nil)
	if err != nil {
		return err
	}
	return s.send(ctx, to, subjectResetSuccess, body)
}

// send delivers an email via SMTP using go-mail.
func (s *Service) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
