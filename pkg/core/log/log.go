// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package log is the logging facade of the fuelfinder use cases and
// adapters. Records go to the slog.Default() handler which is set up
// by the fuelweb command, e.g., as JSON lines in production.
// The Debug, Info, Warn, and Error functions take typed slog.Attr
// values, built by the helpers of this package such as ID and Actor,
// so a station or an account is labelled the same way in all records.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelDebug, msg, attrs)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelError, msg, attrs)
}

// emit must be called directly by the exported functions, so the
// record source points to their caller.
func emit(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	h := slog.Default().Handler()
	if !h.Enabled(ctx, level) {
		return
	}
	var pc [1]uintptr
	runtime.Callers(3, pc[:]) // skips runtime.Callers, emit and its caller
	r := slog.NewRecord(time.Now(), level, msg, pc[0])
	r.AddAttrs(attrs...)
	_ = h.Handle(ctx, r)
}
