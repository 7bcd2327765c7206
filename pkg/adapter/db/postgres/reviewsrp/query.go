// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reviewsrp

import (
	"context"
	"database/sql"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"gorm.io/gorm"
)

const entity = "review"

var sorts = postgres.Sorts{
	"createdAt": "created_at",
	"rate":      "rate",
}

func modelOf(r *tables.Review) model.Review {
	rv := model.Review{
		ID:        r.ID,
		StationID: r.FuelStationID,
		UserID:    r.UserID,
		Content:   r.Content,
		Rate:      r.Rate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		rv.Username = r.User.Username
	}
	return rv
}

// withAuthor preloads the review authors, including the soft-deleted
// accounts, so their reviews keep showing a username.
func withAuthor(gdb *gorm.DB) *gorm.DB {
	return gdb.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	})
}

func page[Q postgres.Queryer](ctx context.Context, q Q, cond string, arg int64, pr model.PageRequest) ([]model.Review, int64, error) {
	gdb := q.GORM(ctx).Model(&tables.Review{}).Where(cond, arg)
	rows, total, err := postgres.Paginate[tables.Review](
		gdb, pr, sorts, "id", withAuthor,
	)
	if err != nil {
		return nil, 0, postgres.Translate(err, entity)
	}
	reviews := make([]model.Review, len(rows))
	for i := range rows {
		reviews[i] = modelOf(&rows[i])
	}
	return reviews, total, nil
}

func ForStation[Q postgres.Queryer](ctx context.Context, q Q, stationID int64, pr model.PageRequest) ([]model.Review, int64, error) {
	return page(ctx, q, "fuel_station_id = ?", stationID, pr)
}

func ForUser[Q postgres.Queryer](ctx context.Context, q Q, userID int64, pr model.PageRequest) ([]model.Review, int64, error) {
	return page(ctx, q, "user_id = ?", userID, pr)
}

func ByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.Review, error) {
	var row tables.Review
	err := withAuthor(q.GORM(ctx)).Where("id = ?", id).Take(&row).Error
	if err != nil {
		return nil, postgres.Translate(err, entity)
	}
	rv := modelOf(&row)
	return &rv, nil
}

func Exists[Q postgres.Queryer](ctx context.Context, q Q, stationID, userID int64) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&tables.Review{}).
		Where("fuel_station_id = ? AND user_id = ?", stationID, userID).
		Count(&n).Error
	if err != nil {
		return false, postgres.Translate(err, entity)
	}
	return n > 0, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, r *model.Review) (*model.Review, error) {
	row := &tables.Review{
		FuelStationID: r.StationID,
		UserID:        r.UserID,
		Content:       r.Content,
		Rate:          r.Rate,
	}
	if err := q.GORM(ctx).Create(row).Error; err != nil {
		return nil, postgres.Translate(err, entity)
	}
	return ByID(ctx, q, row.ID)
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, id int64, in model.ReviewInput) (*model.Review, error) {
	tx := q.GORM(ctx).Model(&tables.Review{}).Where("id = ?", id).
		Updates(map[string]any{"content": in.Content, "rate": in.Rate})
	if err := tx.Error; err != nil {
		return nil, postgres.Translate(err, entity)
	}
	if err := postgres.MustAffect(tx.RowsAffected, entity); err != nil {
		return nil, err
	}
	return ByID(ctx, q, id)
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, id int64) error {
	tx := q.GORM(ctx).Delete(&tables.Review{}, id)
	if err := tx.Error; err != nil {
		return postgres.Translate(err, entity)
	}
	return postgres.MustAffect(tx.RowsAffected, entity)
}

// Summary computes the average rate and number of the (not deleted)
// reviews of a station. A station without reviews has a zero average.
func Summary[Q postgres.Queryer](ctx context.Context, q Q, stationID int64) (model.RatingSummary, error) {
	var res struct {
		Average sql.NullFloat64
		Count   int64
	}
	err := q.GORM(ctx).Model(&tables.Review{}).
		Select("AVG(rate) AS average, COUNT(*) AS count").
		Where("fuel_station_id = ?", stationID).
		Scan(&res).Error
	if err != nil {
		return model.RatingSummary{}, postgres.Translate(err, entity)
	}
	return model.RatingSummary{
		Average: res.Average.Float64,
		Count:   res.Count,
	}, nil
}
