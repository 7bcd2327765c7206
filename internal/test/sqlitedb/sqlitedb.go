// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqlitedb is an internal helper for the test packages.
// It creates a throw-away SQLite database file, migrates the tables
// using gorm AutoMigrate, and wraps it in a *postgres.Pool, so the
// repositories and use cases may be tested without a PostgreSQL
// server. Queries which depend on PostgreSQL specific features must
// be tested using the dbcontainer package instead.
package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// New creates a fresh database in the t temporary directory and
// returns its connections pool. The pool is closed when t finishes.
func New(ctx context.Context, t *testing.T) *postgres.Pool {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fuelfinder.db")
	dsn := "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
	pool, err := postgres.Open(ctx, sqlite.Open(dsn))
	require.NoError(t, err, "failed to open the test database")
	t.Cleanup(func() {
		require.NoError(t, pool.Close(), "failed to close the pool")
	})
	err = pool.DB.WithContext(ctx).AutoMigrate(tables.All()...)
	require.NoError(t, err, "failed to migrate the test database")
	return pool
}
