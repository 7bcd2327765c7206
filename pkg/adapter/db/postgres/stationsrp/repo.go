// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stationsrp implements the repo.Stations interface, covering
// the fuel_stations table and the tables which belong to a station,
// namely its offered fuel types and services, opening hours, and
// owners.
package stationsrp

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

func (stations *Repo) Conn(c repo.Conn) repo.StationsQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (stations *Repo) Tx(tx repo.Tx) repo.StationsQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (sq queryer[Q]) Create(ctx context.Context, in model.StationInput, by int64) (*model.FuelStation, error) {
	return Create(ctx, sq.q, in, by)
}

func (sq queryer[Q]) Update(ctx context.Context, id int64, in model.StationInput, by int64) (*model.FuelStation, error) {
	return Update(ctx, sq.q, id, in, by)
}

func (sq queryer[Q]) Delete(ctx context.Context, id int64) error {
	return Delete(ctx, sq.q, id)
}

func (sq queryer[Q]) ByID(ctx context.Context, id int64) (*model.FuelStation, error) {
	return ByID(ctx, sq.q, id)
}

func (sq queryer[Q]) Exists(ctx context.Context, id int64) (bool, error) {
	return Exists(ctx, sq.q, id)
}

func (sq queryer[Q]) Find(ctx context.Context, f model.StationFilter) ([]model.FuelStation, error) {
	return Find(ctx, sq.q, f)
}

func (sq queryer[Q]) FindPage(ctx context.Context, f model.StationFilter, pr model.PageRequest) ([]model.FuelStation, int64, error) {
	return FindPage(ctx, sq.q, f, pr)
}

func (sq queryer[Q]) Owned(ctx context.Context, userID int64, pr model.PageRequest) ([]model.FuelStation, int64, error) {
	return Owned(ctx, sq.q, userID, pr)
}

func (sq queryer[Q]) FuelTypes(ctx context.Context, id int64) ([]model.NamedEntity, error) {
	return FuelTypes(ctx, sq.q, id)
}

func (sq queryer[Q]) SetFuelTypes(ctx context.Context, id int64, fuelTypeIDs []int64) error {
	return SetFuelTypes(ctx, sq.q, id, fuelTypeIDs)
}

func (sq queryer[Q]) CountFuelTypes(ctx context.Context, id int64, fuelTypeIDs []int64) (int64, error) {
	return CountFuelTypes(ctx, sq.q, id, fuelTypeIDs)
}

func (sq queryer[Q]) Services(ctx context.Context, id int64) ([]model.NamedEntity, error) {
	return Services(ctx, sq.q, id)
}

func (sq queryer[Q]) SetServices(ctx context.Context, id int64, serviceIDs []int64) error {
	return SetServices(ctx, sq.q, id, serviceIDs)
}

func (sq queryer[Q]) OpeningHours(ctx context.Context, id int64) ([]model.OpeningHours, error) {
	return OpeningHours(ctx, sq.q, id)
}

func (sq queryer[Q]) SetOpeningHours(ctx context.Context, id int64, hours []model.OpeningHours) error {
	return SetOpeningHours(ctx, sq.q, id, hours)
}

func (sq queryer[Q]) IsOwner(ctx context.Context, id, userID int64) (bool, error) {
	return IsOwner(ctx, sq.q, id, userID)
}

func (sq queryer[Q]) AddOwner(ctx context.Context, id, userID int64) error {
	return AddOwner(ctx, sq.q, id, userID)
}

func (sq queryer[Q]) RemoveOwner(ctx context.Context, id, userID int64) error {
	return RemoveOwner(ctx, sq.q, id, userID)
}

func (sq queryer[Q]) CountOwned(ctx context.Context, userID int64) (int64, error) {
	return CountOwned(ctx, sq.q, userID)
}
