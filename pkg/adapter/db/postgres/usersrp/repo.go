// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp implements the repo.Users interface.
package usersrp

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

func (users *Repo) Conn(c repo.Conn) repo.UsersQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (uq queryer[Q]) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return Create(ctx, uq.q, u)
}

func (uq queryer[Q]) ByID(ctx context.Context, id int64) (*model.User, error) {
	return ByID(ctx, uq.q, id)
}

func (uq queryer[Q]) ByUsername(ctx context.Context, username string) (*model.User, error) {
	return ByUsername(ctx, uq.q, username)
}

func (uq queryer[Q]) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return ByEmail(ctx, uq.q, email)
}

func (uq queryer[Q]) Taken(ctx context.Context, username, email string) (bool, bool, error) {
	return Taken(ctx, uq.q, username, email)
}

func (uq queryer[Q]) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return UpdatePassword(ctx, uq.q, id, hash)
}

func (uq queryer[Q]) ConfirmEmail(ctx context.Context, id int64) error {
	return ConfirmEmail(ctx, uq.q, id)
}

func (uq queryer[Q]) SetStatus(ctx context.Context, id int64, s model.AccountStatus) error {
	return update(ctx, uq.q, id, map[string]any{"status": string(s)})
}

func (uq queryer[Q]) SetRole(ctx context.Context, id int64, r model.Role) error {
	return update(ctx, uq.q, id, map[string]any{"role": string(r)})
}

func (uq queryer[Q]) Delete(ctx context.Context, id int64) error {
	return Delete(ctx, uq.q, id)
}
