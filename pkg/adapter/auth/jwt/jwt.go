// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwt issues and verifies the bearer tokens of the API clients
// as HMAC-SHA256 signed JSON Web Tokens. Tokens only carry the user id
// (as their subject) and standard claims, so the role and status of
// users are always taken from the database. This package relies on
// the github.com/golang-jwt/jwt/v5 module.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/momeni/fuelfinder/pkg/core/model"
)

// MinSecretLength is the least accepted length of the signing secret
// in bytes, matching the output length of SHA256.
const MinSecretLength = 32

// Issuer implements the accountsuc.TokenIssuer interface.
type Issuer struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

// New creates an Issuer which signs tokens with secret and marks them
// with the issuer name. Tokens expire after lifetime.
func New(secret []byte, issuer string, lifetime time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf(
			"secret must have at least %d bytes", MinSecretLength,
		)
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("lifetime (%v) is not positive", lifetime)
	}
	return &Issuer{
		secret:   secret,
		issuer:   issuer,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Issue creates a signed token for u and returns it with its expiration
// instant.
func (iss *Issuer) Issue(_ context.Context, u *model.User) (string, time.Time, error) {
	now := iss.now()
	exp := now.Add(iss.lifetime).Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Issuer:    iss.issuer,
		Subject:   strconv.FormatInt(u.ID, 10),
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(iss.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return s, exp, nil
}

// Verify checks the token signature, issuer, and expiration time and
// returns the id of its user.
func (iss *Issuer) Verify(_ context.Context, token string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(*jwt.Token) (any, error) { return iss.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(iss.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(iss.now),
	)
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid token subject")
	}
	return id, nil
}
