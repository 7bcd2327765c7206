// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc provides the database migration use cases.
// It exposes two main use cases, namely InitDBUseCase for initializing
// of database schema with initial sample data (for development or
// production environment) and MigrateDBUseCase for moving the schema
// between its versions (upwards or downwards). Both of them work on a
// Migrator port which is realized by the versioned SQL files of the
// postgres adapter package.
package migrationuc

import "context"

// Migrator represents the expectations from a schema migrator. Each
// schema version is a pair of up and down migration steps.
type Migrator interface {
	// Up applies all pending migrations.
	Up(ctx context.Context) error

	// Down rolls back the given positive number of migrations.
	Down(ctx context.Context, steps int) error

	// Reset rolls back all migrations, leaving an empty schema.
	Reset(ctx context.Context) error

	// Version returns the applied schema version (zero when nothing is
	// applied) and whether the last migration failed half way.
	Version(ctx context.Context) (v uint, dirty bool, err error)

	// Force records v as the applied version without migrating.
	Force(ctx context.Context, v int) error
}
