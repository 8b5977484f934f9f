// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"github.com/authcompany/authd/internal/ctxkeys"
)

// WithAccountID returns a context carrying the authenticated account id.
func WithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkeys.AccountID{}, id)
}

// AccountID returns the authenticated account id from the context, or ""
// if the request is unauthenticated.
func AccountID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxkeys.AccountID{}).(string); ok {
		return id
	}
	return ""
}
