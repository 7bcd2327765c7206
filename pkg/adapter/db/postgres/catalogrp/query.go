// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalogrp

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"gorm.io/gorm"
)

// gNamed is the common row format of all catalog tables.
type gNamed struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (gn *gNamed) Model() model.NamedEntity {
	return model.NamedEntity{ID: gn.ID, Name: gn.Name}
}

var sorts = postgres.Sorts{
	"id":   "id",
	"name": "lower(name)",
}

// TableName returns the table which keeps the k catalog rows.
func TableName(k model.CatalogKind) (string, error) {
	switch k {
	case model.FuelTypes:
		return "fuel_types", nil
	case model.StationChains:
		return "station_chains", nil
	case model.StationServices:
		return "station_services", nil
	default:
		return "", fmt.Errorf("unknown catalog: %q", k)
	}
}

func entity(k model.CatalogKind) string {
	switch k {
	case model.FuelTypes:
		return "fuel type"
	case model.StationChains:
		return "station chain"
	default:
		return "station service"
	}
}

func table[Q postgres.Queryer](ctx context.Context, q Q, k model.CatalogKind) (*gorm.DB, error) {
	t, err := TableName(k)
	if err != nil {
		return nil, err
	}
	return q.GORM(ctx).Table(t), nil
}

// List loads the pr page of k catalog. A non-empty name limits the
// rows to those containing it, ignoring letter cases.
func List[Q postgres.Queryer](ctx context.Context, q Q, k model.CatalogKind, name string, pr model.PageRequest) ([]model.NamedEntity, int64, error) {
	gdb, err := table(ctx, q, k)
	if err != nil {
		return nil, 0, err
	}
	if name != "" {
		gdb = gdb.Where(
			`lower(name) LIKE ? ESCAPE '\'`,
			"%"+postgres.EscapeLike(name)+"%",
		)
	}
	rows, total, err := postgres.Paginate[gNamed](gdb, pr, sorts, "id")
	if err != nil {
		return nil, 0, postgres.Translate(err, entity(k))
	}
	ents := make([]model.NamedEntity, len(rows))
	for i := range rows {
		ents[i] = rows[i].Model()
	}
	return ents, total, nil
}

func ByID[Q postgres.Queryer](ctx context.Context, q Q, k model.CatalogKind, id int64) (*model.NamedEntity, error) {
	gdb, err := table(ctx, q, k)
	if err != nil {
		return nil, err
	}
	var row gNamed
	if err = gdb.Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, postgres.Translate(err, entity(k))
	}
	e := row.Model()
	return &e, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, k model.CatalogKind, name string) (*model.NamedEntity, error) {
	gdb, err := table(ctx, q, k)
	if err != nil {
		return nil, err
	}
	row := &gNamed{Name: name}
	if err = gdb.Create(row).Error; err != nil {
		return nil, postgres.Translate(err, entity(k))
	}
	e := row.Model()
	return &e, nil
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, k model.CatalogKind, id int64, name string) (*model.NamedEntity, error) {
	gdb, err := table(ctx, q, k)
	if err != nil {
		return nil, err
	}
	tx := gdb.Where("id = ?", id).Updates(map[string]any{
		"name":       name,
		"updated_at": gdb.NowFunc(),
	})
	if err = tx.Error; err != nil {
		return nil, postgres.Translate(err, entity(k))
	}
	if err = postgres.MustAffect(tx.RowsAffected, entity(k)); err != nil {
		return nil, err
	}
	return &model.NamedEntity{ID: id, Name: name}, nil
}

// Delete removes the id row of k catalog. Referencing rows of the join
// and price tables are removed by the cascading foreign keys.
func Delete[Q postgres.Queryer](ctx context.Context, q Q, k model.CatalogKind, id int64) error {
	gdb, err := table(ctx, q, k)
	if err != nil {
		return err
	}
	tx := gdb.Where("id = ?", id).Delete(&gNamed{})
	if err = tx.Error; err != nil {
		return postgres.Translate(err, entity(k))
	}
	return postgres.MustAffect(tx.RowsAffected, entity(k))
}

// CountExisting returns how many of the distinct ids belong to rows of
// the k catalog.
func CountExisting[Q postgres.Queryer](ctx context.Context, q Q, k model.CatalogKind, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	gdb, err := table(ctx, q, k)
	if err != nil {
		return 0, err
	}
	var n int64
	if err = gdb.Where("id IN ?", ids).Count(&n).Error; err != nil {
		return 0, postgres.Translate(err, entity(k))
	}
	return n, nil
}
