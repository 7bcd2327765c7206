// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package lognotify implements the accountsuc.Notifier interface by
// logging the one-time codes instead of e-mailing them. It is meant
// for the development and test deployments which have no mail server.
package lognotify

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/model"
)

// Notifier logs the one-time codes with the Info level. Codes are
// masked unless Reveal is set, so they do not leak from production
// logs by accident.
type Notifier struct {
	Reveal bool
}

// New creates a Notifier which reveals the codes if reveal is true.
func New(reveal bool) *Notifier {
	return &Notifier{Reveal: reveal}
}

func (n *Notifier) send(ctx context.Context, msg string, u *model.User, code string) error {
	if !n.Reveal {
		code = "******"
	}
	log.Info(ctx, msg, log.User(u.ID, u.Username), log.String("code", code))
	return nil
}

func (n *Notifier) SendEmailConfirmation(ctx context.Context, u *model.User, code string) error {
	return n.send(ctx, "e-mail confirmation code", u, code)
}

func (n *Notifier) SendPasswordReset(ctx context.Context, u *model.User, code string) error {
	return n.send(ctx, "password reset code", u, code)
}
