// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a string specifying a database connection role. Each role
// has a set of granted privileges which indicates which operations
// may be performed after using it for connecting to a database.
// The authentication information of these roles are kept in a pgpass
// file as indicated in the configuration file.
type Role string

const (
	// AdminRole owns the schema. It is used by the migration commands
	// which create or alter tables and by the initialization commands.
	AdminRole Role = "admin"

	// NormalRole is the unprivileged role of the web server which may
	// only read and write rows of the existing tables.
	NormalRole Role = "fuelweb"
)
