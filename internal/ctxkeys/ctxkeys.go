// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package ctxkeys defines typed context keys shared across packages.
package ctxkeys

// AccountID is the context key for the authenticated account id.
type AccountID struct{}
