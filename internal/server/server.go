// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, services and routes into a
// running HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/authcompany/authd/internal/config"
	"github.com/authcompany/authd/internal/database"
	"github.com/authcompany/authd/internal/handlers"
	authmw "github.com/authcompany/authd/internal/middleware"
	"github.com/authcompany/authd/internal/repository"
	"github.com/authcompany/authd/internal/services/account"
	"github.com/authcompany/authd/internal/services/email"
	"github.com/authcompany/authd/internal/services/session"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database (connect + migrations)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	repo := repository.New(db)

	// Mail transport
	var mailer account.Mailer
	if cfg.SMTP.Host != "" {
		mailer, err = email.NewService(&cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to create email service: %w", err)
		}
	} else {
		slog.Warn("no SMTP host configured, outbound mail is logged only")
		mailer = email.LogMailer{}
	}

	// Sessions
	secure := !config.IsLocalhost(cfg.Server.Host)
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("no JWT secret configured, sessions will not survive a restart")
	}
	sessions, err := session.NewManager(&cfg.Auth, secure)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	accounts := account.NewService(repo, mailer, cfg.Server.ClientURL)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e)
	setupRoutes(e, accounts, sessions, cfg.Auth.DebugErrors)

	return startWithGracefulShutdown(ctx, e, cfg)
}

func setupRoutes(e *echo.Echo, accounts *account.Service, sessions *session.Manager, debugErrors bool) {
	h := handlers.NewAuth(accounts, sessions, debugErrors)

	e.GET("/health", handlers.Health)

	api := e.Group("/api/auth")
	api.POST("/signup", h.Signup)
	api.POST("/verify-email", h.VerifyEmail)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.POST("/forgot-password", h.ForgotPassword)
	api.POST("/reset-password/:token", h.ResetPassword)
	api.GET("/check-auth", h.CheckAuth, authmw.RequireAuth(sessions))
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
