// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// The error value is resolved as a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// ID returns an Attr for a database row identifier.
func ID(key string, id int64) slog.Attr {
	return slog.Int64(key, id)
}

// User returns a group Attr describing an acting user by its id and
// username. Passwords and e-mails are never logged.
func User(id int64, username string) slog.Attr {
	return slog.Group("user",
		slog.Int64("id", id),
		slog.String("username", username),
	)
}

// Actor is like User, but describes the user who performs an action
// on another user, so both may be logged together.
func Actor(id int64, username string) slog.Attr {
	return slog.Group("actor",
		slog.Int64("id", id),
		slog.String("username", username),
	)
}

// String returns an Attr for a string value.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}
