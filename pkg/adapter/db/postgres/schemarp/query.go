// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/scram"
)

// passwordIterations is the PBKDF2 iterations count of the database
// role passwords. They are random strings, so the minimum suffices.
const passwordIterations = 4096

func roleIdent(roleSuffix, role repo.Role) string {
	return pgx.Identifier{string(role + roleSuffix)}.Sanitize()
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, but no specific password will be set for it.
// The ChangePasswords function may be used for setting a password.
//
// The `role` role name is suffixed by `roleSuffix` if it is not empty.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	rows, err := q.Query(
		ctx, `SELECT 1 FROM pg_roles WHERE rolname=$1`,
		string(role+roleSuffix),
	)
	if err != nil {
		return fmt.Errorf("querying pg_roles: %w", err)
	}
	exists := rows.Next()
	if err = errors.Join(rows.Err(), rows.Close()); err != nil {
		return fmt.Errorf("iterating pg_roles: %w", err)
	}
	if exists {
		return nil
	}
	_, err = q.Exec(ctx, "CREATE ROLE "+roleIdent(roleSuffix, role)+" LOGIN")
	return err
}

// GrantPrivileges grants the data manipulation privileges on all
// tables and sequences of the public schema to the `role` role, so it
// may serve the API without being able to alter the schema.
//
// The `role` role name is suffixed by `roleSuffix` if it is not empty.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	r := roleIdent(roleSuffix, role)
	for _, stmt := range []string{
		"GRANT USAGE ON SCHEMA public TO " + r,
		"GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA public TO " + r,
		"GRANT USAGE, SELECT ON ALL SEQUENCES IN SCHEMA public TO " + r,
	} {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// ChangePasswords updates the passwords of the given roles in the
// current transaction. The roles and passwords slices must have the
// same number of entries, so they can be used in pair.
//
// The `roles` role names are suffixed by `roleSuffix` if it is not
// empty. The `hasher` is used for hashing of the `passwords` before
// sending them to the DBMS (so they may not leak in plaintext).
// This SCRAM hasher format must conform with the DBMS expected format.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"%d roles do not match %d passwords",
			len(roles), len(passwords),
		)
	}
	for i, role := range roles {
		h, err := hasher.Hash(passwords[i], "", passwordIterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		// ALTER ROLE takes no bind parameters. The verifier only
		// contains base64 and separator characters.
		h = strings.ReplaceAll(h, "'", "''")
		_, err = tx.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD '%s'",
			roleIdent(roleSuffix, role), h,
		))
		if err != nil {
			return fmt.Errorf("altering %q role: %w", role, err)
		}
	}
	return nil
}
