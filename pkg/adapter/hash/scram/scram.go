// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram presents an implementation of SCRAM-SHA-256 and
// SCRAM-SHA-1 mechanisms for hashing account passwords and one-time
// codes. See the SHA256 and SHA1 functions for their instantiation
// logic. Hash strings use the SCRAM stored credentials format, so the
// plaintext secret is never kept and may not be recovered from them.
package scram

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xdg-go/scram"
)

// MinIterations is the least accepted PBKDF2 iterations count.
const MinIterations = 4096

// ErrMalformedHash indicates that a stored hash string could not be
// parsed by Verify.
var ErrMalformedHash = errors.New("malformed scram hash")

// Mechanism provides a Salted Challenge Response Authentication
// Mechanism (SCRAM) having a fixed underlying hash algorithm.
//
// It implements the github.com/momeni/fuelfinder/pkg/core/scram.Hasher
// interface, so it may be used in the use cases layer without any
// dependency on the actual implementation. This package relies on
// the github.com/xdg-go/scram module for the SCRAM implementation.
type Mechanism struct {
	hashGenerator scram.HashGeneratorFcn
	outLen        int // bytes
	name          string
}

// SHA1 returns a new Mechanism instance using the SHA1 as its
// underlying hash algorithm.
func SHA1() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA1,
		outLen:        160 / 8,
		name:          "SCRAM-SHA-1",
	}
}

// SHA256 returns a new Mechanism instance using the SHA256 as its
// underlying hash algorithm.
func SHA256() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA256,
		outLen:        256 / 8,
		name:          "SCRAM-SHA-256",
	}
}

// Hash computes a hash string following the standard scram hash format,
// so it can be stored and used later by Verify.
//
// The pass argument must be non-empty. It will be normalized according
// to the SASLprep profile (RFC 4013) and any failure in that
// normalization returns an error.
//
// The salt must contain a base64 encoding of the desired salt
// bytes, otherwise, if an empty value is passed, a random salt will
// be generated and used instead.
// The iters must be at least equal to 4096. However, the RFC 7677
// recommends to use 15000 or more.
//
// In absence of errors, a hashed string will be returned which
// conforms to the following format.
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < MinIterations:
		return "", fmt.Errorf(
			"iters (%d) is less than %d", iters, MinIterations,
		)
	}
	if salt == "" {
		saltBytes := make([]byte, m.outLen)
		if _, err := rand.Read(saltBytes); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(saltBytes)
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return "", fmt.Errorf("obtaining stored credentials: %w", err)
	}
	h := fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		m.name,
		iters, salt,
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	)
	return h, nil
}

// Verify reports whether pass matches the hash string which must have
// been produced by the Hash method of a Mechanism with the same
// underlying hash algorithm. A mismatching password is reported by
// a false result and a nil error, while an unparsable hash returns
// an error wrapping ErrMalformedHash.
func (m *Mechanism) Verify(hash, pass string) (bool, error) {
	name, rest, ok := strings.Cut(hash, "$")
	if !ok || name != m.name {
		return false, fmt.Errorf("%w: unexpected mechanism", ErrMalformedHash)
	}
	params, keys, ok := strings.Cut(rest, "$")
	if !ok {
		return false, fmt.Errorf("%w: missing keys", ErrMalformedHash)
	}
	itersStr, salt, ok := strings.Cut(params, ":")
	if !ok {
		return false, fmt.Errorf("%w: missing salt", ErrMalformedHash)
	}
	iters, err := strconv.Atoi(itersStr)
	if err != nil || iters < MinIterations {
		return false, fmt.Errorf("%w: bad iterations", ErrMalformedHash)
	}
	if pass == "" {
		return false, nil
	}
	expected, err := m.Hash(pass, salt, iters)
	if err != nil {
		return false, fmt.Errorf("hashing the given password: %w", err)
	}
	_, expectedKeys, _ := strings.Cut(expected[len(name)+1:], "$")
	eq := subtle.ConstantTimeCompare([]byte(keys), []byte(expectedKeys))
	return eq == 1, nil
}

func (m *Mechanism) storedCredentials(
	pass, salt string, iters int,
) (*scram.StoredCredentials, error) {
	c, err := m.hashGenerator.NewClient("username", pass, "authzID")
	if err != nil {
		return nil, fmt.Errorf("creating SCRAM client: %w", err)
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 salt: %w", err)
	}
	c = c.WithMinIterations(iters)
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	})
	return &sc, nil
}
