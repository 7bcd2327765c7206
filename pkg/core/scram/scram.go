// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interface for hashing secrets
// with a Salted Challenge Response Authentication Mechanism (SCRAM).
// For the corresponding implementation, check the adapter layer.
//
// Use cases only need to produce a hash string with the standard
// SCRAM format (having a password, salt, and iteration count) and to
// check a presented secret against such a stored string later. Account
// passwords and one-time e-mail codes are both hashed this way.
package scram

// Hasher represents the expectations from a SCRAM hasher implementation
// which for a specific underlying hash function (e.g., SHA1 or SHA256)
// computes the storedKey and serverKey values whenever its Hash method
// is called with the relevant pass, salt, and iters arguments.
// A PBKDF2 algorithm is computed in order to slow down a dictionary
// attack as detailed in RFC 5802.
type Hasher interface {
	// Hash computes a hash string following the standard scram hash
	// format, so it can be stored and used later for authentication.
	// An empty salt asks for a random salt. The iters must be at least
	// equal to 4096.
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	Hash(pass, salt string, iters int) (string, error)

	// Verify reports whether pass matches the hash string which was
	// produced by Hash. Errors are only returned for malformed hashes.
	Verify(hash, pass string) (bool, error)
}
