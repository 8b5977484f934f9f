// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token generates the single-use lifecycle tokens: short numeric
// verification codes and high-entropy password reset tokens.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const (
	// VerificationCodeTTL is how long an email verification code is valid.
	VerificationCodeTTL = 24 * time.Hour
	// ResetTokenTTL is how long a password reset token is valid.
	ResetTokenTTL = time.Hour

	// resetTokenBytes yields 160 bits of entropy, hex-encoded to 40 chars.
	resetTokenBytes = 20

	verificationCodeMin  = 100000
	verificationCodeSpan = 900000
)

// NewVerificationCode returns a 6-digit decimal code uniformly sampled from
// [100000, 999999] and its expiry. The code is drawn from crypto/rand even
// though its guess space is small; it is single-use and time-boxed.
func NewVerificationCode() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(verificationCodeSpan))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate verification code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+verificationCodeMin)
	return code, time.Now().UTC().Add(VerificationCodeTTL), nil
}

// NewResetToken returns a cryptographically random, hex-encoded password
// reset token and its expiry.
func NewResetToken() (string, time.Time, error) {
	bytes := make([]byte, resetTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(bytes), time.Now().UTC().Add(ResetTokenTTL), nil
}
