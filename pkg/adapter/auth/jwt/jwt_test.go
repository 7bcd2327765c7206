// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestNewRejectsWeakSettings(t *testing.T) {
	_, err := New([]byte("short"), "fuelweb", time.Hour)
	assert.Error(t, err)
	_, err = New(secret, "fuelweb", 0)
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	iss, err := New(secret, "fuelweb", time.Hour)
	require.NoError(t, err)
	tok, exp, err := iss.Issue(ctx, &model.User{ID: 42})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)
	id, err := iss.Verify(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestVerifyRejectsExpiredTokens(t *testing.T) {
	ctx := context.Background()
	iss, err := New(secret, "fuelweb", time.Minute)
	require.NoError(t, err)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, _, err := iss.Issue(ctx, &model.User{ID: 1})
	require.NoError(t, err)
	iss.now = time.Now
	_, err = iss.Verify(ctx, tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	iss, err := New(secret, "fuelweb", time.Hour)
	require.NoError(t, err)
	other, err := New([]byte(strings.Repeat("x", 32)), "fuelweb", time.Hour)
	require.NoError(t, err)
	tok, _, err := other.Issue(ctx, &model.User{ID: 1})
	require.NoError(t, err)
	_, err = iss.Verify(ctx, tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	wrongIssuer, err := New(secret, "someone-else", time.Hour)
	require.NoError(t, err)
	tok, _, err = wrongIssuer.Issue(ctx, &model.User{ID: 1})
	require.NoError(t, err)
	_, err = iss.Verify(ctx, tok)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	_, err = iss.Verify(ctx, "not-a-token")
	assert.Error(t, err)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	iss, err := New(secret, "fuelweb", time.Hour)
	require.NoError(t, err)
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "fuelweb",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Verify(context.Background(), s)
	assert.Error(t, err)
}
