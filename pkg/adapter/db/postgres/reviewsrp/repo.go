// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reviewsrp implements the repo.Reviews interface.
package reviewsrp

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

func (reviews *Repo) Conn(c repo.Conn) repo.ReviewsQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (reviews *Repo) Tx(tx repo.Tx) repo.ReviewsQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (rq queryer[Q]) ForStation(ctx context.Context, stationID int64, pr model.PageRequest) ([]model.Review, int64, error) {
	return ForStation(ctx, rq.q, stationID, pr)
}

func (rq queryer[Q]) ForUser(ctx context.Context, userID int64, pr model.PageRequest) ([]model.Review, int64, error) {
	return ForUser(ctx, rq.q, userID, pr)
}

func (rq queryer[Q]) ByID(ctx context.Context, id int64) (*model.Review, error) {
	return ByID(ctx, rq.q, id)
}

func (rq queryer[Q]) Exists(ctx context.Context, stationID, userID int64) (bool, error) {
	return Exists(ctx, rq.q, stationID, userID)
}

func (rq queryer[Q]) Create(ctx context.Context, r *model.Review) (*model.Review, error) {
	return Create(ctx, rq.q, r)
}

func (rq queryer[Q]) Update(ctx context.Context, id int64, in model.ReviewInput) (*model.Review, error) {
	return Update(ctx, rq.q, id, in)
}

func (rq queryer[Q]) Delete(ctx context.Context, id int64) error {
	return Delete(ctx, rq.q, id)
}

func (rq queryer[Q]) Summary(ctx context.Context, stationID int64) (model.RatingSummary, error) {
	return Summary(ctx, rq.q, stationID)
}
