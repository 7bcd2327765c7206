// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package favoritesrp implements the repo.Favorites interface.
package favoritesrp

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (favorites *Repo) Conn(c repo.Conn) repo.FavoritesQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (favorites *Repo) Tx(tx repo.Tx) repo.FavoritesQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (fq queryer[Q]) Add(ctx context.Context, userID, stationID int64) error {
	return Add(ctx, fq.q, userID, stationID)
}

func (fq queryer[Q]) Remove(ctx context.Context, userID, stationID int64) error {
	return Remove(ctx, fq.q, userID, stationID)
}

func (fq queryer[Q]) List(ctx context.Context, userID int64, pr model.PageRequest) ([]model.Favorite, int64, error) {
	return List(ctx, fq.q, userID, pr)
}
