// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pricesrp

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"gorm.io/gorm"
)

const entity = "fuel price"

var sorts = postgres.Sorts{
	"createdAt": "created_at",
	"price":     "price",
}

func modelOf(p *tables.FuelPrice) model.FuelPrice {
	fp := model.FuelPrice{
		ID:        p.ID,
		StationID: p.FuelStationID,
		FuelType:  model.NamedEntity{ID: p.FuelTypeID},
		Price:     p.Price,
		Available: p.Available,
		Status:    model.PriceStatus(p.Status),
		Priority:  p.Priority,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
	}
	if p.FuelType != nil {
		fp.FuelType.Name = p.FuelType.Name
	}
	return fp
}

func models(rows []tables.FuelPrice) []model.FuelPrice {
	prices := make([]model.FuelPrice, len(rows))
	for i := range rows {
		prices[i] = modelOf(&rows[i])
	}
	return prices
}

func withFuelType(gdb *gorm.DB) *gorm.DB {
	return gdb.Preload("FuelType")
}

// Create inserts all prices in one statement and returns them with
// their ids and creation times.
func Create[Q postgres.Queryer](ctx context.Context, q Q, prices []model.FuelPrice) ([]model.FuelPrice, error) {
	if len(prices) == 0 {
		return nil, nil
	}
	rows := make([]tables.FuelPrice, len(prices))
	for i, p := range prices {
		rows[i] = tables.FuelPrice{
			FuelStationID: p.StationID,
			FuelTypeID:    p.FuelType.ID,
			Price:         p.Price,
			Available:     p.Available,
			Status:        string(p.Status),
			Priority:      p.Priority,
			UserID:        p.UserID,
		}
	}
	if err := q.GORM(ctx).Create(&rows).Error; err != nil {
		return nil, postgres.Translate(err, entity)
	}
	created := make([]model.FuelPrice, len(rows))
	for i := range rows {
		created[i] = modelOf(&rows[i])
		created[i].FuelType.Name = prices[i].FuelType.Name
	}
	return created, nil
}

func ByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.FuelPrice, error) {
	var row tables.FuelPrice
	err := withFuelType(q.GORM(ctx)).Where("id = ?", id).Take(&row).Error
	if err != nil {
		return nil, postgres.Translate(err, entity)
	}
	fp := modelOf(&row)
	return &fp, nil
}

func SetStatus[Q postgres.Queryer](ctx context.Context, q Q, id int64, s model.PriceStatus) error {
	tx := q.GORM(ctx).Model(&tables.FuelPrice{}).Where("id = ?", id).
		Update("status", string(s))
	if err := tx.Error; err != nil {
		return postgres.Translate(err, entity)
	}
	return postgres.MustAffect(tx.RowsAffected, entity)
}

// newerAccepted matches the fuel_prices rows which supersede the row
// of the outer query as the current price of its station and fuel type.
const newerAccepted = `NOT EXISTS (SELECT 1 FROM fuel_prices AS n
WHERE n.fuel_station_id = fuel_prices.fuel_station_id
AND n.fuel_type_id = fuel_prices.fuel_type_id
AND n.status = fuel_prices.status
AND n.deleted_at IS NULL
AND (n.created_at > fuel_prices.created_at
OR (n.created_at = fuel_prices.created_at AND n.priority > fuel_prices.priority)
OR (n.created_at = fuel_prices.created_at AND n.priority = fuel_prices.priority
AND n.id > fuel_prices.id)))`

// Current loads the current price of each fuel type at stationIDs,
// which is the newest accepted one, preferring higher priorities and
// then higher ids among prices of the same time. A non-nil fuelTypeID
// limits the result to that fuel type. Rows are ordered by station and
// fuel type ids.
func Current[Q postgres.Queryer](ctx context.Context, q Q, stationIDs []int64, fuelTypeID *int64) ([]model.FuelPrice, error) {
	if len(stationIDs) == 0 {
		return nil, nil
	}
	gdb := withFuelType(q.GORM(ctx)).
		Where("status = ?", string(model.PriceAccepted)).
		Where("fuel_station_id IN ?", stationIDs)
	if fuelTypeID != nil {
		gdb = gdb.Where("fuel_type_id = ?", *fuelTypeID)
	}
	var rows []tables.FuelPrice
	err := gdb.Where(newerAccepted).
		Order("fuel_station_id").Order("fuel_type_id").
		Find(&rows).Error
	if err != nil {
		return nil, postgres.Translate(err, entity)
	}
	return models(rows), nil
}

func History[Q postgres.Queryer](ctx context.Context, q Q, stationID, fuelTypeID int64, pr model.PageRequest) ([]model.FuelPrice, int64, error) {
	gdb := q.GORM(ctx).Model(&tables.FuelPrice{}).
		Where("status = ?", string(model.PriceAccepted)).
		Where("fuel_station_id = ? AND fuel_type_id = ?", stationID, fuelTypeID)
	rows, total, err := postgres.Paginate[tables.FuelPrice](
		gdb, pr, sorts, "id", withFuelType,
	)
	if err != nil {
		return nil, 0, postgres.Translate(err, entity)
	}
	return models(rows), total, nil
}

func Pending[Q postgres.Queryer](ctx context.Context, q Q, pr model.PageRequest) ([]model.FuelPrice, int64, error) {
	gdb := q.GORM(ctx).Model(&tables.FuelPrice{}).
		Where("status = ?", string(model.PricePending))
	rows, total, err := postgres.Paginate[tables.FuelPrice](
		gdb, pr, sorts, "id", withFuelType,
	)
	if err != nil {
		return nil, 0, postgres.Translate(err, entity)
	}
	return models(rows), total, nil
}
