// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlitedb

import (
	"context"
	"testing"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/stretchr/testify/require"
)

// CreateUser inserts an active account with the given role. Its
// password hash is not a valid hash, so it may not log in.
func CreateUser(ctx context.Context, t *testing.T, p *postgres.Pool, username string, role model.Role) *model.User {
	t.Helper()
	row := &tables.User{
		Username:       username,
		Email:          username + "@example.com",
		EmailConfirmed: true,
		Password:       "-",
		Role:           string(role),
		Status:         string(model.StatusActive),
	}
	require.NoError(t, p.DB.WithContext(ctx).Create(row).Error)
	return usersrp.Model(row)
}

// CreateNamed inserts a row into the k catalog and returns its id.
func CreateNamed(ctx context.Context, t *testing.T, p *postgres.Pool, k model.CatalogKind, name string) int64 {
	t.Helper()
	var row any
	var id *int64
	switch k {
	case model.FuelTypes:
		r := &tables.FuelType{Name: name}
		row, id = r, &r.ID
	case model.StationChains:
		r := &tables.StationChain{Name: name}
		row, id = r, &r.ID
	default:
		r := &tables.StationService{Name: name}
		row, id = r, &r.ID
	}
	require.NoError(t, p.DB.WithContext(ctx).Create(row).Error)
	return *id
}

// CreateStation inserts a fuel station at the given coordinates which
// offers the fuelTypeIDs and returns its id.
func CreateStation(
	ctx context.Context, t *testing.T, p *postgres.Pool,
	name string, lat, lon float64, fuelTypeIDs ...int64,
) int64 {
	t.Helper()
	gdb := p.DB.WithContext(ctx)
	row := &tables.FuelStation{
		Name:         name,
		Street:       "Main",
		StreetNumber: "1",
		City:         "Tehran",
		PostalCode:   "12345",
		Latitude:     lat,
		Longitude:    lon,
	}
	require.NoError(t, gdb.Create(row).Error)
	for _, ft := range fuelTypeIDs {
		err := gdb.Create(&tables.FuelAtStation{
			FuelTypeID: ft, FuelStationID: row.ID,
		}).Error
		require.NoError(t, err)
	}
	return row.ID
}
