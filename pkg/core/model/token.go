// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"
)

// TokenKind tells what a one-time Token may be used for.
type TokenKind string

const (
	EmailVerificationToken TokenKind = "EMAIL_VERIFICATION"
	PasswordResetToken     TokenKind = "PASSWORD_RESET"
)

// Token is a short-lived one-time code. Only the hash of the code is
// kept. Count is the number of failed attempts to use it.
type Token struct {
	ID        int64
	UserID    int64
	Kind      TokenKind
	Hash      string
	Count     int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether t cannot be used at the now instant.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
