// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package favoritesrp

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/stationsrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"gorm.io/gorm"
)

const entity = "favorite"

var sorts = postgres.Sorts{
	"createdAt": "created_at",
}

func withStation(gdb *gorm.DB) *gorm.DB {
	return gdb.Preload("FuelStation").Preload("FuelStation.StationChain")
}

func Add[Q postgres.Queryer](ctx context.Context, q Q, userID, stationID int64) error {
	err := q.GORM(ctx).Create(&tables.Favorite{
		UserID: userID, FuelStationID: stationID,
	}).Error
	return postgres.Translate(err, entity)
}

func Remove[Q postgres.Queryer](ctx context.Context, q Q, userID, stationID int64) error {
	tx := q.GORM(ctx).
		Where("user_id = ? AND fuel_station_id = ?", userID, stationID).
		Delete(&tables.Favorite{})
	if err := tx.Error; err != nil {
		return postgres.Translate(err, entity)
	}
	return postgres.MustAffect(tx.RowsAffected, entity)
}

func List[Q postgres.Queryer](ctx context.Context, q Q, userID int64, pr model.PageRequest) ([]model.Favorite, int64, error) {
	gdb := q.GORM(ctx).Model(&tables.Favorite{}).Where("user_id = ?", userID)
	rows, total, err := postgres.Paginate[tables.Favorite](
		gdb, pr, sorts, "fuel_station_id", withStation,
	)
	if err != nil {
		return nil, 0, postgres.Translate(err, entity)
	}
	favs := make([]model.Favorite, 0, len(rows))
	for _, r := range rows {
		if r.FuelStation == nil {
			continue
		}
		favs = append(favs, model.Favorite{
			Station:   stationsrp.Model(r.FuelStation),
			CreatedAt: r.CreatedAt,
		})
	}
	return favs, total, nil
}
