// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration keeps the versioned PostgreSQL schema as embedded
// SQL files and applies them with golang-migrate. Each schema version
// is a pair of NNNNNN_title.up.sql and NNNNNN_title.down.sql files in
// the sql directory and the applied version is recorded by
// golang-migrate in the schema_migrations table.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/momeni/fuelfinder/pkg/core/log"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator applies the embedded migrations on one database.
// It implements the migrationuc.Migrator interface.
type Migrator struct {
	m *migrate.Migrate
}

// New creates a Migrator which uses the db connection pool. The db
// must be opened by the pgx driver (as it is done by gorm postgres
// dialector) and must belong to a role which may alter the schema.
// Closing the Migrator closes db too, so a dedicated pool should be
// passed to New.
func New(db *sql.DB) (*Migrator, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("iofs.New: %w", err)
	}
	drv, err := pgx.WithInstance(db, &pgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("pgx.WithInstance: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		return nil, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}
	m.Log = migrateLogger{}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. Having no pending migration is
// not an error.
func (mg *Migrator) Up(ctx context.Context) error {
	return mg.run(ctx, mg.m.Up)
}

// Down rolls back the given number of applied migrations.
func (mg *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive: %d", steps)
	}
	return mg.run(ctx, func() error { return mg.m.Steps(-steps) })
}

// Reset rolls back all applied migrations, leaving an empty schema
// which may be migrated up again.
func (mg *Migrator) Reset(ctx context.Context) error {
	return mg.run(ctx, mg.m.Down)
}

// Version returns the currently applied schema version and whether
// the last migration failed half way (dirty). A zero version means
// that no migration is applied yet.
func (mg *Migrator) Version(context.Context) (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Force records v as the applied version and clears the dirty flag
// without running any migration, so a manually repaired database may
// be migrated again.
func (mg *Migrator) Force(_ context.Context, v int) error {
	return mg.m.Force(v)
}

// Close releases the source and database drivers and closes the
// database connection pool which was passed to New.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// run calls f and stops it gracefully when ctx is cancelled.
func (mg *Migrator) run(ctx context.Context, f func() error) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			select {
			case mg.m.GracefulStop <- true:
			default:
			}
		case <-done:
		}
	}()
	if err := f(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// migrateLogger passes golang-migrate logs to slog.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	log.Info(context.Background(), fmt.Sprintf(format, v...))
}

func (migrateLogger) Verbose() bool {
	return false
}
