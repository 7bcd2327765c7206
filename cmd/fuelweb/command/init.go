// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/momeni/fuelfinder/pkg/adapter/hash/scram"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/routes"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

// EnvAdminPassword names the environment variable which holds the
// password of the admin account which is created by init-dev and
// init-prod, so it is not exposed in the process arguments.
const EnvAdminPassword = "FUEL_ADMIN_PASSWORD"

const rolesMessage = `
Unless a database URL is configured, the fuelweb database role is
created (if missing) and is granted access to the tables. Its password
is renewed and recorded in the .pgpass file of the pass-dir folder.
The admin account password is read from the ` + EnvAdminPassword + `
environment variable (which may be kept in a .env file).`

var admin migrationuc.Admin

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data.
All existing tables and their data are dropped, all migrations are
applied, and an admin account, the catalogs, and a few sample stations
with their prices are created, so the API may be tried out.
` + rolesMessage,
	RunE: func(_ *cobra.Command, _ []string) error {
		return initDB(func(ctx context.Context, iduc *migrationuc.InitDBUseCase) error {
			return iduc.InitDev(ctx, admin)
		})
	},
	Args: cobra.NoArgs,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data.
All existing tables and their data are dropped, all migrations are
applied, and only the admin account is created.
` + rolesMessage,
	RunE: func(_ *cobra.Command, _ []string) error {
		return initDB(func(ctx context.Context, iduc *migrationuc.InitDBUseCase) error {
			return iduc.InitProd(ctx, admin)
		})
	},
	Args: cobra.NoArgs,
}

func initDB(
	f func(ctx context.Context, iduc *migrationuc.InitDBUseCase) error,
) error {
	ctx := context.Background()
	c, _, err := loadConfig()
	if err != nil {
		return err
	}
	var found bool
	if admin.Password, found = os.LookupEnv(EnvAdminPassword); !found {
		return fmt.Errorf("%s environment variable is not set", EnvAdminPassword)
	}
	m, err := c.Migrator(ctx)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()
	p, err := c.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	r := routes.NewRepos()
	iduc := migrationuc.NewInitDB(
		m, p, r.Users, r.Catalog, r.Stations, r.Prices,
		scram.SHA256(), *c.Auth.HashIterations,
	)
	if c.Database.URL == "" {
		iduc.WithRoles(c.NewSchemaRepo(), c.RenewPasswords)
	}
	if err = f(ctx, iduc); err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{initDevCmd, initProdCmd} {
		cmd.Flags().StringVar(
			&admin.Username, "admin-username", "admin",
			"username of the admin account",
		)
		cmd.Flags().StringVar(
			&admin.Email, "admin-email", "admin@localhost.localdomain",
			"e-mail address of the admin account",
		)
		dbCmd.AddCommand(cmd)
	}
}
