// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pricesrp implements the repo.Prices interface.
package pricesrp

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

func (prices *Repo) Conn(c repo.Conn) repo.PricesQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (prices *Repo) Tx(tx repo.Tx) repo.PricesQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (pq queryer[Q]) Create(ctx context.Context, prices []model.FuelPrice) ([]model.FuelPrice, error) {
	return Create(ctx, pq.q, prices)
}

func (pq queryer[Q]) ByID(ctx context.Context, id int64) (*model.FuelPrice, error) {
	return ByID(ctx, pq.q, id)
}

func (pq queryer[Q]) SetStatus(ctx context.Context, id int64, s model.PriceStatus) error {
	return SetStatus(ctx, pq.q, id, s)
}

func (pq queryer[Q]) Current(ctx context.Context, stationIDs []int64, fuelTypeID *int64) ([]model.FuelPrice, error) {
	return Current(ctx, pq.q, stationIDs, fuelTypeID)
}

func (pq queryer[Q]) History(ctx context.Context, stationID, fuelTypeID int64, pr model.PageRequest) ([]model.FuelPrice, int64, error) {
	return History(ctx, pq.q, stationID, fuelTypeID, pr)
}

func (pq queryer[Q]) Pending(ctx context.Context, pr model.PageRequest) ([]model.FuelPrice, int64, error) {
	return Pending(ctx, pq.q, pr)
}
