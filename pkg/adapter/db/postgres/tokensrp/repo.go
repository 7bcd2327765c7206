// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tokensrp implements the repo.Tokens interface over the
// account_tokens table.
package tokensrp

import (
	"context"
	"time"

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

func (tokens *Repo) Conn(c repo.Conn) repo.TokensQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (tokens *Repo) Tx(tx repo.Tx) repo.TokensQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (tq queryer[Q]) Replace(ctx context.Context, t *model.Token) error {
	return Replace(ctx, tq.q, t)
}

func (tq queryer[Q]) Get(ctx context.Context, userID int64, kind model.TokenKind) (*model.Token, error) {
	return Get(ctx, tq.q, userID, kind)
}

func (tq queryer[Q]) ClaimAttempt(ctx context.Context, id int64, maxAttempts int) (bool, error) {
	return ClaimAttempt(ctx, tq.q, id, maxAttempts)
}

func (tq queryer[Q]) Delete(ctx context.Context, id int64) error {
	return Delete(ctx, tq.q, id)
}

func (tq queryer[Q]) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return DeleteExpired(ctx, tq.q, now)
}
