// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package accountsuc

import (
	"context"
	"time"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

// TokenIssuer issues and verifies the bearer tokens which are handed
// to the API clients after a successful login.
type TokenIssuer interface {
	// Issue creates a signed token for u and returns it together with
	// its expiration instant.
	Issue(ctx context.Context, u *model.User) (string, time.Time, error)

	// Verify checks the signature and expiration of token and returns
	// the id of the user which it was issued for.
	Verify(ctx context.Context, token string) (userID int64, err error)
}

// Notifier delivers one-time codes to the account owners.
type Notifier interface {
	SendEmailConfirmation(ctx context.Context, u *model.User, code string) error
	SendPasswordReset(ctx context.Context, u *model.User, code string) error
}
