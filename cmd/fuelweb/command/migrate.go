// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/momeni/fuelfinder/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema up or down",
	Long: `Migrate the database schema up or down using the embedded
SQL migration files. The database connection information are read from
the config file and the admin role is used, since tables are created,
altered, or dropped. Each migration runs in its own transaction. If a
migration fails half way, the schema is marked as dirty and must be
repaired manually before forcing its version.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withMigrateDB(func(ctx context.Context, muc *migrationuc.MigrateDBUseCase) error {
			from, to, err := muc.Up(ctx)
			if err != nil {
				return fmt.Errorf("migrating up: %w", err)
			}
			fmt.Printf("schema version: %d -> %d\n", from, to)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back the last migrations (one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			var err error
			if steps, err = strconv.Atoi(args[0]); err != nil || steps < 1 {
				return fmt.Errorf("steps must be a positive integer: %q", args[0])
			}
		}
		return withMigrateDB(func(ctx context.Context, muc *migrationuc.MigrateDBUseCase) error {
			from, to, err := muc.Down(ctx, steps)
			if err != nil {
				return fmt.Errorf("migrating down: %w", err)
			}
			fmt.Printf("schema version: %d -> %d\n", from, to)
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withMigrateDB(func(ctx context.Context, muc *migrationuc.MigrateDBUseCase) error {
			v, dirty, err := muc.Version(ctx)
			if err != nil {
				return fmt.Errorf("querying schema version: %w", err)
			}
			if dirty {
				fmt.Printf("schema version: %d (dirty)\n", v)
				return nil
			}
			fmt.Printf("schema version: %d\n", v)
			return nil
		})
	},
}

var migrateForceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Record a schema version and clear the dirty flag",
	Long: `Record a schema version and clear the dirty flag without
running any migration. It should only be used after repairing a dirty
database manually. The -1 version means that no migration is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("version must be an integer: %q", args[0])
		}
		return withMigrateDB(func(ctx context.Context, muc *migrationuc.MigrateDBUseCase) error {
			return muc.Force(ctx, v)
		})
	},
}

// withMigrateDB loads the config file, connects to the database as the
// admin role, and passes a migration use case to f.
func withMigrateDB(
	f func(ctx context.Context, muc *migrationuc.MigrateDBUseCase) error,
) error {
	ctx := context.Background()
	c, _, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := c.Migrator(ctx)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()
	return f(ctx, migrationuc.NewMigrateDB(m))
}

func init() {
	migrateCmd.AddCommand(
		migrateUpCmd, migrateDownCmd, migrateVersionCmd, migrateForceCmd,
	)
	dbCmd.AddCommand(migrateCmd)
}
