// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package catalogrp implements the repo.Catalog interface. All catalog
// tables (fuel types, station chains, and station services) share the
// same id and unique name columns, so one implementation serves them.
package catalogrp

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

func (catalog *Repo) Conn(c repo.Conn) repo.CatalogQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (catalog *Repo) Tx(tx repo.Tx) repo.CatalogQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (cq queryer[Q]) List(ctx context.Context, k model.CatalogKind, name string, pr model.PageRequest) ([]model.NamedEntity, int64, error) {
	return List(ctx, cq.q, k, name, pr)
}

func (cq queryer[Q]) ByID(ctx context.Context, k model.CatalogKind, id int64) (*model.NamedEntity, error) {
	return ByID(ctx, cq.q, k, id)
}

func (cq queryer[Q]) Create(ctx context.Context, k model.CatalogKind, name string) (*model.NamedEntity, error) {
	return Create(ctx, cq.q, k, name)
}

func (cq queryer[Q]) Update(ctx context.Context, k model.CatalogKind, id int64, name string) (*model.NamedEntity, error) {
	return Update(ctx, cq.q, k, id, name)
}

func (cq queryer[Q]) Delete(ctx context.Context, k model.CatalogKind, id int64) error {
	return Delete(ctx, cq.q, k, id)
}

func (cq queryer[Q]) CountExisting(ctx context.Context, k model.CatalogKind, ids []int64) (int64, error) {
	return CountExisting(ctx, cq.q, k, ids)
}
