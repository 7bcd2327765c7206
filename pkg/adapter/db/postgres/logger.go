// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/fuelfinder/pkg/core/log"
)

// slogWriter passes the gorm logger lines to the default slog logger.
// Only warnings (e.g., slow queries) and errors reach it because the
// gorm logger is configured with the logger.Warn level.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	log.Warn(context.Background(), fmt.Sprintf(format, args...))
}
