// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import "github.com/spf13/cobra"

// dbCmd groups the sub-commands which connect with the admin role of
// the configured database instead of the role serving the API.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the fuelfinder database",
	Long: `Manage the fuelfinder database with the admin role.
A new database is prepared by init-dev, which also creates the
sample fuel stations and prices, or by init-prod which only creates
the admin account. The migrate sub-commands upgrade or roll back the
schema of an existing database, keeping its stations and accounts.`,
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
