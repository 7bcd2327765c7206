// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/momeni/fuelfinder/pkg/core/log"
)

// ErrDirty indicates that the last migration has failed half way and
// the database must be repaired manually and then forced to a version.
var ErrDirty = errors.New("database schema is dirty")

// MigrateDBUseCase represents the database migration use case.
type MigrateDBUseCase struct {
	migrator Migrator
}

// NewMigrateDB creates a MigrateDBUseCase instance which migrates the
// database schema using m.
func NewMigrateDB(m Migrator) *MigrateDBUseCase {
	return &MigrateDBUseCase{migrator: m}
}

func (mduc *MigrateDBUseCase) clean(ctx context.Context) (uint, error) {
	v, dirty, err := mduc.migrator.Version(ctx)
	if err != nil {
		return 0, fmt.Errorf("querying schema version: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("version %d: %w", v, ErrDirty)
	}
	return v, nil
}

// Up migrates the database schema to its latest version and returns
// the previous and new versions.
func (mduc *MigrateDBUseCase) Up(ctx context.Context) (from, to uint, err error) {
	if from, err = mduc.clean(ctx); err != nil {
		return from, from, err
	}
	if err = mduc.migrator.Up(ctx); err != nil {
		return from, from, fmt.Errorf("migrating up: %w", err)
	}
	if to, _, err = mduc.migrator.Version(ctx); err != nil {
		return from, from, fmt.Errorf("querying schema version: %w", err)
	}
	log.Info(
		ctx, "migrated schema up",
		slog.Uint64("from", uint64(from)), slog.Uint64("to", uint64(to)),
	)
	return from, to, nil
}

// Down rolls back the steps latest migrations and returns the previous
// and new versions.
func (mduc *MigrateDBUseCase) Down(ctx context.Context, steps int) (from, to uint, err error) {
	if steps <= 0 {
		return 0, 0, fmt.Errorf("steps must be positive: %d", steps)
	}
	if from, err = mduc.clean(ctx); err != nil {
		return from, from, err
	}
	if uint(steps) > from {
		return from, from, fmt.Errorf(
			"can not roll back %d steps from version %d", steps, from,
		)
	}
	if err = mduc.migrator.Down(ctx, steps); err != nil {
		return from, from, fmt.Errorf("migrating down: %w", err)
	}
	if to, _, err = mduc.migrator.Version(ctx); err != nil {
		return from, from, fmt.Errorf("querying schema version: %w", err)
	}
	log.Info(
		ctx, "migrated schema down",
		slog.Uint64("from", uint64(from)), slog.Uint64("to", uint64(to)),
	)
	return from, to, nil
}

// Version returns the applied schema version and its dirty flag.
func (mduc *MigrateDBUseCase) Version(ctx context.Context) (uint, bool, error) {
	return mduc.migrator.Version(ctx)
}

// Force records v as the applied schema version and clears the dirty
// flag. It should only be used after repairing a dirty database.
// The -1 version means that no migration is applied.
func (mduc *MigrateDBUseCase) Force(ctx context.Context, v int) error {
	if v < -1 {
		return fmt.Errorf("version must be at least -1: %d", v)
	}
	if err := mduc.migrator.Force(ctx, v); err != nil {
		return fmt.Errorf("forcing version %d: %w", v, err)
	}
	log.Warn(ctx, "forced schema version", slog.Int("version", v))
	return nil
}
