// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/fuelfinder/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIsDeterministicForFixedSalt(t *testing.T) {
	m := scram.SHA256()
	h1, err := m.Hash("Secret123", "c2FsdHNhbHQ=", 4096)
	require.NoError(t, err)
	h2, err := m.Hash("Secret123", "c2FsdHNhbHQ=", 4096)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.True(t, strings.HasPrefix(h1, "SCRAM-SHA-256$4096:c2FsdHNhbHQ=$"))
}

func TestHashUsesRandomSalt(t *testing.T) {
	m := scram.SHA256()
	h1, err := m.Hash("Secret123", "", 4096)
	require.NoError(t, err)
	h2, err := m.Hash("Secret123", "", 4096)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashRejectsBadArguments(t *testing.T) {
	m := scram.SHA1()
	_, err := m.Hash("", "", 4096)
	assert.Error(t, err)
	_, err = m.Hash("Secret123", "", 1000)
	assert.Error(t, err)
	_, err = m.Hash("Secret123", "not base64!", 4096)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	m := scram.SHA256()
	h, err := m.Hash("Secret123", "", 4096)
	require.NoError(t, err)

	ok, err := m.Verify(h, "Secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Verify(h, "Secret124")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Verify(h, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyMalformedHash(t *testing.T) {
	m := scram.SHA256()
	h1, err := scram.SHA1().Hash("Secret123", "", 4096)
	require.NoError(t, err)
	for _, h := range []string{
		"", "plain", "SCRAM-SHA-256$x:c2FsdA==$a:b", h1,
		"SCRAM-SHA-256$4096:c2FsdA==",
	} {
		_, err := m.Verify(h, "Secret123")
		assert.ErrorIs(t, err, scram.ErrMalformedHash, h)
	}
}
