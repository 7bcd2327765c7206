// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// This packages facilitates creation of a temporary postgres:16
// podman container, migrating its schema using the embedded SQL
// migrations, and connecting to it using a *postgres.Pool connection
// pool. It may be used in all integration-level test suites which
// require a real PostgreSQL DBMS server, such as the tests of the
// migrations and the PostgreSQL specific role management queries.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/migration"
	"github.com/stretchr/testify/assert"
)

// New creates and starts up a postgres podman container.
// The podman.service needs to be started and the DOCKER_HOST
// environment variable needs to be initialized beforehand like
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock
// in order to be identified by this function properly.
// The ctx will be used during the container start up and shutdown,
// while the timeout will be considered only during the start up phase.
// The t test is skipped when no container engine socket is found.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	if os.Getenv("DOCKER_HOST") == "" {
		if _, err := os.Stat("/var/run/docker.sock"); err != nil {
			t.Skip("no container engine; set DOCKER_HOST to run this test")
		}
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	dbmsVer := "16"
	pg, err := sqltestutil.StartPostgresContainer(ctx2, dbmsVer)
	ok = assert.NoError(t, err, "failed to set up a test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pg.Shutdown(ctx)
		assert.NoError(t, err, "failed to shutdown test database")
	})
	u := pg.ConnectionString()
	for pool == nil {
		pool, err = postgres.NewPool(ctx2, u)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "57P03" {
			continue // the database system is starting up
		}
		var netErr net.Error
		if ctx2.Err() == nil && errors.As(err, &netErr) {
			continue // tolerate network errors until a timeout
		}
		ok = assert.NoError(t, err, "cannot connect to test database")
		if !ok {
			return
		}
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}

// Migrate applies all migrations on the pool database. The returned
// migrator shares the pool connections, so it must not be closed
// before the pool.
func Migrate(
	ctx context.Context, pool *postgres.Pool, t *testing.T,
) (*migration.Migrator, bool) {
	db, err := pool.DB.DB()
	if !assert.NoError(t, err, "failed to obtain *sql.DB") {
		return nil, false
	}
	m, err := migration.New(db)
	if !assert.NoError(t, err, "failed to create the migrator") {
		return nil, false
	}
	if !assert.NoError(t, m.Up(ctx), "failed to migrate up") {
		return nil, false
	}
	return m, true
}
