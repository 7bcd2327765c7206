// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package accountsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the accounts use case.
type Option func(uc *UseCase) error

// WithHashIterations configures the PBKDF2 iterations count which is
// used for hashing new passwords. Existing hashes keep their own count.
func WithHashIterations(iters int) Option {
	return func(uc *UseCase) error {
		if iters < 4096 {
			return fmt.Errorf("iterations (%d) is less than 4096", iters)
		}
		if uc.hashIterations != 0 {
			return errors.New("hash iterations is already configured")
		}
		uc.hashIterations = iters
		return nil
	}
}

// WithVerificationTokenLifetime configures how long an e-mail
// confirmation code remains usable.
func WithVerificationTokenLifetime(d time.Duration) Option {
	return func(uc *UseCase) error {
		if d <= 0 {
			return fmt.Errorf("lifetime (%v) is not positive", d)
		}
		if uc.verificationLifetime != 0 {
			return errors.New("verification lifetime is already configured")
		}
		uc.verificationLifetime = d
		return nil
	}
}

// WithResetTokenLifetime configures how long a password reset code
// remains usable.
func WithResetTokenLifetime(d time.Duration) Option {
	return func(uc *UseCase) error {
		if d <= 0 {
			return fmt.Errorf("lifetime (%v) is not positive", d)
		}
		if uc.resetLifetime != 0 {
			return errors.New("reset lifetime is already configured")
		}
		uc.resetLifetime = d
		return nil
	}
}

// WithMaxTokenAttempts configures how many wrong codes may be tried
// before a one-time code is invalidated.
func WithMaxTokenAttempts(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("attempts (%d) is not positive", n)
		}
		if uc.maxAttempts != 0 {
			return errors.New("max attempts is already configured")
		}
		uc.maxAttempts = n
		return nil
	}
}

// WithClock replaces time.Now, so tests can control token expiration.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("nil clock")
		}
		uc.now = now
		return nil
	}
}

// WithCodeGenerator replaces the random one-time code generator.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(uc *UseCase) error {
		if gen == nil {
			return errors.New("nil code generator")
		}
		uc.genCode = gen
		return nil
	}
}
