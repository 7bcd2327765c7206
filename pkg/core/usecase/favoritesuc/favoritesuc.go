// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package favoritesuc contains the favorites UseCase which lets users
// bookmark their frequently visited fuel stations.
package favoritesuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
)

var sortSpec = model.SortSpec{
	Keys:           []string{"createdAt"},
	DefaultKey:     "createdAt",
	DefaultDescend: true,
}

// UseCase represents the favorites use case.
type UseCase struct {
	pool        repo.Pool
	favoritesrp repo.Favorites
	stationsrp  repo.Stations

	pagination model.Pagination
}

// New instantiates a favorites use case.
func New(p repo.Pool, f repo.Favorites, s repo.Stations, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, favoritesrp: f, stationsrp: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.pagination.MaxPageSize == 0 {
		uc.pagination = model.Pagination{DefaultPageSize: 20, MaxPageSize: 100}
	}
	return uc, nil
}

// List returns the pr page of actor favorite stations, most recently
// added first by default.
func (fv *UseCase) List(ctx context.Context, actor *model.User, pr model.PageRequest) (*model.Page[model.Favorite], error) {
	if err := pr.Normalize(fv.pagination, sortSpec); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var favs []model.Favorite
	var total int64
	err := fv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		favs, total, err = fv.favoritesrp.Conn(c).List(ctx, actor.ID, pr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model.NewPage(favs, pr, total), nil
}

// Add marks the stationID station as a favorite of actor.
func (fv *UseCase) Add(ctx context.Context, actor *model.User, stationID int64) error {
	return fv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ok, err := fv.stationsrp.Conn(c).Exists(ctx, stationID)
		if err != nil {
			return err
		}
		if !ok {
			return cerr.NotFound(errors.New("fuel station not found"))
		}
		return fv.favoritesrp.Conn(c).Add(ctx, actor.ID, stationID)
	})
}

// Remove unmarks the stationID station. It fails with a not found
// error if the station was not a favorite of actor.
func (fv *UseCase) Remove(ctx context.Context, actor *model.User, stationID int64) error {
	return fv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return fv.favoritesrp.Conn(c).Remove(ctx, actor.ID, stationID)
	})
}
