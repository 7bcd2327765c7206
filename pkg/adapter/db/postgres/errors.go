// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"gorm.io/gorm"
)

// PostgreSQL error codes which are reported to the API clients.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

// Translate converts the err database error into a cerr.Error, so it
// can be reported with a proper HTTP status code. The entity string
// names the affected rows in the returned error message. Unrecognized
// errors are wrapped and returned as internal errors.
func Translate(err error, entity string) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return cerr.NotFound(fmt.Errorf("%s not found", entity))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return cerr.Conflict(fmt.Errorf("%s already exists", entity))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return cerr.BadRequest(
			fmt.Errorf("%s refers to a missing row", entity),
		)
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case codeUniqueViolation:
			return cerr.Conflict(fmt.Errorf("%s already exists", entity))
		case codeForeignKeyViolation:
			return cerr.BadRequest(
				fmt.Errorf("%s refers to a missing row", entity),
			)
		case codeCheckViolation:
			return cerr.BadRequest(fmt.Errorf(
				"%s violates %s", entity, pgErr.ConstraintName,
			))
		}
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return cerr.Conflict(fmt.Errorf("%s already exists", entity))
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// MustAffect returns a NotFound error for entity if n is zero.
func MustAffect(n int64, entity string) error {
	if n == 0 {
		return cerr.NotFound(fmt.Errorf("%s not found", entity))
	}
	return nil
}
