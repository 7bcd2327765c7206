// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pricesrp_test

import (
	"context"
	"testing"
	"time"

	"github.com/momeni/fuelfinder/internal/test/sqlitedb"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/pricesrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceRow struct {
	station, fuelType int64
	price             float64
	status            model.PriceStatus
	priority          uint8
	at                time.Time
}

func insert(ctx context.Context, t *testing.T, p *postgres.Pool, userID int64, rows ...priceRow) {
	t.Helper()
	for _, r := range rows {
		err := p.DB.WithContext(ctx).Create(&tables.FuelPrice{
			FuelStationID: r.station,
			FuelTypeID:    r.fuelType,
			Price:         r.price,
			Available:     true,
			Status:        string(r.status),
			Priority:      r.priority,
			UserID:        userID,
			CreatedAt:     r.at,
		}).Error
		require.NoError(t, err)
	}
}

func TestCurrentKeepsOnePricePerFuelType(t *testing.T) {
	ctx := context.Background()
	p := sqlitedb.New(ctx, t)
	u := sqlitedb.CreateUser(ctx, t, p, "admin", model.RoleAdmin)
	gas := sqlitedb.CreateNamed(ctx, t, p, model.FuelTypes, "Gasoline")
	diesel := sqlitedb.CreateNamed(ctx, t, p, model.FuelTypes, "Diesel")
	azadi := sqlitedb.CreateStation(ctx, t, p, "Azadi", 35.70, 51.34, gas, diesel)
	vanak := sqlitedb.CreateStation(ctx, t, p, "Vanak", 35.76, 51.41, gas)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	insert(ctx, t, p, u.ID,
		priceRow{azadi, gas, 1.60, model.PriceAccepted, 0, base},
		priceRow{azadi, gas, 1.50, model.PriceAccepted, 0, base.Add(time.Minute)},
		priceRow{azadi, gas, 0.90, model.PricePending, 0, base.Add(2 * time.Minute)},
		priceRow{azadi, diesel, 1.10, model.PriceAccepted, 0, base},
		priceRow{azadi, diesel, 1.30, model.PriceAccepted, 1, base},
		priceRow{vanak, gas, 1.40, model.PriceAccepted, 0, base},
		priceRow{vanak, gas, 1.45, model.PriceRejected, 0, base.Add(time.Hour)},
	)

	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := pricesrp.New().Conn(c)
		cur, err := q.Current(ctx, []int64{azadi, vanak}, nil)
		require.NoError(t, err)
		type pair struct{ station, fuelType int64 }
		got := map[pair]float64{}
		for _, fp := range cur {
			got[pair{fp.StationID, fp.FuelType.ID}] = fp.Price
		}
		assert.Len(t, cur, 3)
		assert.Equal(t, map[pair]float64{
			{azadi, gas}:    1.50,
			{azadi, diesel}: 1.30,
			{vanak, gas}:    1.40,
		}, got)

		cur, err = q.Current(ctx, []int64{azadi, vanak}, &diesel)
		require.NoError(t, err)
		require.Len(t, cur, 1)
		assert.Equal(t, "Diesel", cur[0].FuelType.Name)

		cur, err = q.Current(ctx, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, cur)
		return nil
	})
	require.NoError(t, err)
}
