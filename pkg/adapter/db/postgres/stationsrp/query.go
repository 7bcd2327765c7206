// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package stationsrp

import (
	"context"
	"fmt"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"gorm.io/gorm"
)

const entity = "fuel station"

var sorts = postgres.Sorts{
	model.SortByID:   "id",
	model.SortByName: "lower(name)",
}

// Model converts a fuel_stations row, with its optionally preloaded
// chain, to a model.FuelStation.
func Model(s *tables.FuelStation) model.FuelStation {
	fs := model.FuelStation{
		ID:   s.ID,
		Name: s.Name,
		Address: model.Address{
			Street:       s.Street,
			StreetNumber: s.StreetNumber,
			City:         s.City,
			PostalCode:   s.PostalCode,
		},
		Coordinates: model.Coordinates{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if c := s.StationChain; c != nil {
		fs.Chain = &model.NamedEntity{ID: c.ID, Name: c.Name}
	} else if s.StationChainID != nil {
		fs.Chain = &model.NamedEntity{ID: *s.StationChainID}
	}
	return fs
}

func withChain(gdb *gorm.DB) *gorm.DB {
	return gdb.Preload("StationChain")
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, in model.StationInput, by int64) (*model.FuelStation, error) {
	row := &tables.FuelStation{
		Name:           in.Name,
		StationChainID: in.ChainID,
		Street:         in.Address.Street,
		StreetNumber:   in.Address.StreetNumber,
		City:           in.Address.City,
		PostalCode:     in.Address.PostalCode,
		Latitude:       in.Coordinates.Latitude,
		Longitude:      in.Coordinates.Longitude,
		CreatedBy:      &by,
		UpdatedBy:      &by,
	}
	if err := q.GORM(ctx).Create(row).Error; err != nil {
		return nil, postgres.Translate(err, entity)
	}
	return ByID(ctx, q, row.ID)
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, id int64, in model.StationInput, by int64) (*model.FuelStation, error) {
	tx := q.GORM(ctx).Model(&tables.FuelStation{}).Where("id = ?", id).
		Updates(map[string]any{
			"name":             in.Name,
			"station_chain_id": in.ChainID,
			"street":           in.Address.Street,
			"street_number":    in.Address.StreetNumber,
			"city":             in.Address.City,
			"postal_code":      in.Address.PostalCode,
			"latitude":         in.Coordinates.Latitude,
			"longitude":        in.Coordinates.Longitude,
			"updated_by":       by,
		})
	if err := tx.Error; err != nil {
		return nil, postgres.Translate(err, entity)
	}
	if err := postgres.MustAffect(tx.RowsAffected, entity); err != nil {
		return nil, err
	}
	return ByID(ctx, q, id)
}

// Delete removes the id station and all rows which belong to it.
// Dependent rows are deleted explicitly (instead of relying on the
// cascading foreign keys alone), so the same code works on DBMSs
// which do not enforce foreign keys. It should be called in a Tx.
func Delete[Q postgres.Queryer](ctx context.Context, q Q, id int64) error {
	gdb := q.GORM(ctx)
	for _, t := range []any{
		&tables.FuelAtStation{}, &tables.ServiceAtStation{},
		&tables.OpeningClosingTime{}, &tables.OwnedStation{},
		&tables.Favorite{}, &tables.FuelPrice{}, &tables.Review{},
	} {
		err := gdb.Unscoped().Where("fuel_station_id = ?", id).
			Delete(t).Error
		if err != nil {
			return postgres.Translate(err, entity)
		}
	}
	tx := gdb.Delete(&tables.FuelStation{}, id)
	if err := tx.Error; err != nil {
		return postgres.Translate(err, entity)
	}
	return postgres.MustAffect(tx.RowsAffected, entity)
}

func ByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.FuelStation, error) {
	var row tables.FuelStation
	err := withChain(q.GORM(ctx)).Where("id = ?", id).Take(&row).Error
	if err != nil {
		return nil, postgres.Translate(err, entity)
	}
	fs := Model(&row)
	return &fs, nil
}

func Exists[Q postgres.Queryer](ctx context.Context, q Q, id int64) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&tables.FuelStation{}).
		Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, postgres.Translate(err, entity)
	}
	return n > 0, nil
}

// filtered adds the f filter conditions to the fuel_stations query.
// The bounding box is matched on the indexed coordinate columns, so
// callers still need to compute the exact distances.
func filtered(gdb *gorm.DB, f model.StationFilter) *gorm.DB {
	gdb = gdb.Model(&tables.FuelStation{})
	if b := f.Box; b != nil {
		gdb = gdb.Where(
			"latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			b.MinLatitude, b.MaxLatitude, b.MinLongitude, b.MaxLongitude,
		)
	}
	if f.Name != "" {
		gdb = gdb.Where(
			`lower(name) LIKE ? ESCAPE '\'`,
			"%"+postgres.EscapeLike(f.Name)+"%",
		)
	}
	if f.ChainID != nil {
		gdb = gdb.Where("station_chain_id = ?", *f.ChainID)
	}
	if f.FuelTypeID != nil {
		gdb = gdb.Where(
			"id IN (SELECT fuel_station_id FROM fuel_at_stations WHERE fuel_type_id = ?)",
			*f.FuelTypeID,
		)
	}
	if f.ServiceID != nil {
		gdb = gdb.Where(
			"id IN (SELECT fuel_station_id FROM service_at_stations WHERE station_service_id = ?)",
			*f.ServiceID,
		)
	}
	return gdb
}

func models(rows []tables.FuelStation) []model.FuelStation {
	stations := make([]model.FuelStation, len(rows))
	for i := range rows {
		stations[i] = Model(&rows[i])
	}
	return stations
}

// Find lists all stations which match the f filter, ordered by id.
func Find[Q postgres.Queryer](ctx context.Context, q Q, f model.StationFilter) ([]model.FuelStation, error) {
	var rows []tables.FuelStation
	err := withChain(filtered(q.GORM(ctx), f)).Order("id").Find(&rows).Error
	if err != nil {
		return nil, postgres.Translate(err, entity)
	}
	return models(rows), nil
}

// FindPage loads the pr page of stations which match the f filter.
// It supports the id and name sort keys.
func FindPage[Q postgres.Queryer](ctx context.Context, q Q, f model.StationFilter, pr model.PageRequest) ([]model.FuelStation, int64, error) {
	rows, total, err := postgres.Paginate[tables.FuelStation](
		filtered(q.GORM(ctx), f), pr, sorts, "id", withChain,
	)
	if err != nil {
		return nil, 0, postgres.Translate(err, entity)
	}
	return models(rows), total, nil
}

// Owned loads the pr page of stations which are owned by userID.
func Owned[Q postgres.Queryer](ctx context.Context, q Q, userID int64, pr model.PageRequest) ([]model.FuelStation, int64, error) {
	gdb := q.GORM(ctx).Model(&tables.FuelStation{}).Where(
		"id IN (SELECT fuel_station_id FROM owned_stations WHERE user_id = ?)",
		userID,
	)
	rows, total, err := postgres.Paginate[tables.FuelStation](
		gdb, pr, sorts, "id", withChain,
	)
	if err != nil {
		return nil, 0, postgres.Translate(err, entity)
	}
	return models(rows), total, nil
}

type gNamed struct {
	ID   int64
	Name string
}

// joined lists id and name of the rows of the target catalog table
// which are linked to the id station by the join table.
func joined[Q postgres.Queryer](ctx context.Context, q Q, target, join, fk string, id int64) ([]model.NamedEntity, error) {
	var rows []gNamed
	err := q.GORM(ctx).Table(target+" AS t").
		Select("t.id, t.name").
		Joins(fmt.Sprintf("JOIN %s AS j ON j.%s = t.id", join, fk)).
		Where("j.fuel_station_id = ?", id).
		Order("t.name").
		Scan(&rows).Error
	if err != nil {
		return nil, postgres.Translate(err, entity)
	}
	ents := make([]model.NamedEntity, len(rows))
	for i, r := range rows {
		ents[i] = model.NamedEntity{ID: r.ID, Name: r.Name}
	}
	return ents, nil
}

func FuelTypes[Q postgres.Queryer](ctx context.Context, q Q, id int64) ([]model.NamedEntity, error) {
	return joined(ctx, q, "fuel_types", "fuel_at_stations", "fuel_type_id", id)
}

func Services[Q postgres.Queryer](ctx context.Context, q Q, id int64) ([]model.NamedEntity, error) {
	return joined(ctx, q, "station_services", "service_at_stations", "station_service_id", id)
}

// SetFuelTypes replaces the fuel types which are offered by the id
// station. It should be called in a Tx.
func SetFuelTypes[Q postgres.Queryer](ctx context.Context, q Q, id int64, fuelTypeIDs []int64) error {
	gdb := q.GORM(ctx)
	err := gdb.Where("fuel_station_id = ?", id).
		Delete(&tables.FuelAtStation{}).Error
	if err != nil {
		return postgres.Translate(err, "fuel type at station")
	}
	if len(fuelTypeIDs) == 0 {
		return nil
	}
	rows := make([]tables.FuelAtStation, len(fuelTypeIDs))
	for i, ft := range fuelTypeIDs {
		rows[i] = tables.FuelAtStation{FuelTypeID: ft, FuelStationID: id}
	}
	err = gdb.Create(&rows).Error
	return postgres.Translate(err, "fuel type at station")
}

// CountFuelTypes returns how many of the distinct fuelTypeIDs are
// offered by the id station.
func CountFuelTypes[Q postgres.Queryer](ctx context.Context, q Q, id int64, fuelTypeIDs []int64) (int64, error) {
	if len(fuelTypeIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := q.GORM(ctx).Model(&tables.FuelAtStation{}).
		Where("fuel_station_id = ? AND fuel_type_id IN ?", id, fuelTypeIDs).
		Count(&n).Error
	if err != nil {
		return 0, postgres.Translate(err, "fuel type at station")
	}
	return n, nil
}

// SetServices replaces the services which are offered by the id
// station. It should be called in a Tx.
func SetServices[Q postgres.Queryer](ctx context.Context, q Q, id int64, serviceIDs []int64) error {
	gdb := q.GORM(ctx)
	err := gdb.Where("fuel_station_id = ?", id).
		Delete(&tables.ServiceAtStation{}).Error
	if err != nil {
		return postgres.Translate(err, "service at station")
	}
	if len(serviceIDs) == 0 {
		return nil
	}
	rows := make([]tables.ServiceAtStation, len(serviceIDs))
	for i, s := range serviceIDs {
		rows[i] = tables.ServiceAtStation{
			StationServiceID: s, FuelStationID: id,
		}
	}
	err = gdb.Create(&rows).Error
	return postgres.Translate(err, "service at station")
}

func OpeningHours[Q postgres.Queryer](ctx context.Context, q Q, id int64) ([]model.OpeningHours, error) {
	var rows []tables.OpeningClosingTime
	err := q.GORM(ctx).Where("fuel_station_id = ?", id).
		Order("day_of_week").Find(&rows).Error
	if err != nil {
		return nil, postgres.Translate(err, "opening hours")
	}
	hours := make([]model.OpeningHours, len(rows))
	for i, r := range rows {
		hours[i] = model.OpeningHours{
			DayOfWeek: r.DayOfWeek,
			Opening:   r.OpeningTime,
			Closing:   r.ClosingTime,
		}
	}
	return hours, nil
}

// SetOpeningHours replaces the opening hours of the id station.
// Days which are missing in hours are considered as closed days.
// It should be called in a Tx.
func SetOpeningHours[Q postgres.Queryer](ctx context.Context, q Q, id int64, hours []model.OpeningHours) error {
	gdb := q.GORM(ctx)
	err := gdb.Where("fuel_station_id = ?", id).
		Delete(&tables.OpeningClosingTime{}).Error
	if err != nil {
		return postgres.Translate(err, "opening hours")
	}
	if len(hours) == 0 {
		return nil
	}
	rows := make([]tables.OpeningClosingTime, len(hours))
	for i, oh := range hours {
		rows[i] = tables.OpeningClosingTime{
			FuelStationID: id,
			DayOfWeek:     oh.DayOfWeek,
			OpeningTime:   oh.Opening,
			ClosingTime:   oh.Closing,
		}
	}
	err = gdb.Create(&rows).Error
	return postgres.Translate(err, "opening hours")
}

func IsOwner[Q postgres.Queryer](ctx context.Context, q Q, id, userID int64) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&tables.OwnedStation{}).
		Where("fuel_station_id = ? AND user_id = ?", id, userID).
		Count(&n).Error
	if err != nil {
		return false, postgres.Translate(err, "station owner")
	}
	return n > 0, nil
}

func AddOwner[Q postgres.Queryer](ctx context.Context, q Q, id, userID int64) error {
	err := q.GORM(ctx).Create(&tables.OwnedStation{
		UserID: userID, FuelStationID: id,
	}).Error
	return postgres.Translate(err, "station owner")
}

func RemoveOwner[Q postgres.Queryer](ctx context.Context, q Q, id, userID int64) error {
	tx := q.GORM(ctx).
		Where("fuel_station_id = ? AND user_id = ?", id, userID).
		Delete(&tables.OwnedStation{})
	if err := tx.Error; err != nil {
		return postgres.Translate(err, "station owner")
	}
	return postgres.MustAffect(tx.RowsAffected, "station owner")
}

func CountOwned[Q postgres.Queryer](ctx context.Context, q Q, userID int64) (int64, error) {
	var n int64
	err := q.GORM(ctx).Model(&tables.OwnedStation{}).
		Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, postgres.Translate(err, "station owner")
	}
	return n, nil
}
