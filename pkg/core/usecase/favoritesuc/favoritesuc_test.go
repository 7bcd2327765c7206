// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package favoritesuc_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/momeni/fuelfinder/internal/test/sqlitedb"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/favoritesrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/stationsrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/favoritesuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	p := sqlitedb.New(ctx, t)
	uc, err := favoritesuc.New(p, favoritesrp.New(), stationsrp.New())
	require.NoError(t, err)

	sara := sqlitedb.CreateUser(ctx, t, p, "sara", model.RoleUser)
	omid := sqlitedb.CreateUser(ctx, t, p, "omid", model.RoleUser)
	chain := sqlitedb.CreateNamed(ctx, t, p, model.StationChains, "Shell")
	azadi := sqlitedb.CreateStation(ctx, t, p, "Azadi", 35.7, 51.3)
	vanak := sqlitedb.CreateStation(ctx, t, p, "Vanak", 35.8, 51.4)
	err = p.DB.WithContext(ctx).Model(&tables.FuelStation{}).
		Where("id = ?", vanak).Update("station_chain_id", chain).Error
	require.NoError(t, err)

	page, err := uc.List(ctx, sara, model.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	require.NoError(t, uc.Add(ctx, sara, azadi))
	require.NoError(t, uc.Add(ctx, sara, vanak))
	require.NoError(t, uc.Add(ctx, omid, vanak))
	err = uc.Add(ctx, sara, vanak)
	assert.Equal(t, http.StatusConflict, cerr.StatusCode(err), "%v", err)
	err = uc.Add(ctx, sara, 999)
	assert.Equal(t, http.StatusNotFound, cerr.StatusCode(err), "%v", err)

	page, err = uc.List(ctx, sara, model.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Vanak", page.Data[0].Station.Name)
	require.NotNil(t, page.Data[0].Station.Chain)
	assert.Equal(t, "Shell", page.Data[0].Station.Chain.Name)
	assert.Equal(t, "Azadi", page.Data[1].Station.Name)
	assert.False(t, page.Data[1].CreatedAt.IsZero())

	_, err = uc.List(ctx, sara, model.PageRequest{SortBy: "name"})
	assert.Equal(t, http.StatusBadRequest, cerr.StatusCode(err))

	require.NoError(t, uc.Remove(ctx, sara, vanak))
	err = uc.Remove(ctx, sara, vanak)
	assert.Equal(t, http.StatusNotFound, cerr.StatusCode(err))
	page, err = uc.List(ctx, sara, model.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, azadi, page.Data[0].Station.ID)

	page, err = uc.List(ctx, omid, model.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
}
