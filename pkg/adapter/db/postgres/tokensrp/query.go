// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tokensrp

import (
	"context"
	"time"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"gorm.io/gorm"
)

const entity = "token"

func modelOf(t *tables.AccountToken) *model.Token {
	return &model.Token{
		ID:        t.ID,
		UserID:    t.UserID,
		Kind:      model.TokenKind(t.Kind),
		Hash:      t.Hash,
		Count:     t.Count,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

// Replace deletes the previous token of the same user and kind (if
// any) and inserts t. The t.ID and t.CreatedAt are filled on return.
// Callers should run it in a transaction, so a concurrent Replace can
// not leave the user without any token.
func Replace[Q postgres.Queryer](ctx context.Context, q Q, t *model.Token) error {
	gdb := q.GORM(ctx)
	err := gdb.Where("user_id = ? AND kind = ?", t.UserID, string(t.Kind)).
		Delete(&tables.AccountToken{}).Error
	if err != nil {
		return postgres.Translate(err, entity)
	}
	row := &tables.AccountToken{
		UserID:    t.UserID,
		Kind:      string(t.Kind),
		Hash:      t.Hash,
		Count:     t.Count,
		ExpiresAt: t.ExpiresAt.UTC(),
	}
	if err = gdb.Create(row).Error; err != nil {
		return postgres.Translate(err, entity)
	}
	t.ID = row.ID
	t.CreatedAt = row.CreatedAt
	return nil
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, userID int64, kind model.TokenKind) (*model.Token, error) {
	var row tables.AccountToken
	err := q.GORM(ctx).
		Where("user_id = ? AND kind = ?", userID, string(kind)).
		Take(&row).Error
	if err != nil {
		return nil, postgres.Translate(err, entity)
	}
	return modelOf(&row), nil
}

// ClaimAttempt counts one more attempt of the id token in a single
// conditional update. It reports false when the token is missing or
// has already been tried maxAttempts times.
func ClaimAttempt[Q postgres.Queryer](ctx context.Context, q Q, id int64, maxAttempts int) (bool, error) {
	tx := q.GORM(ctx).Model(&tables.AccountToken{}).
		Where("id = ? AND count < ?", id, maxAttempts).
		Update("count", gorm.Expr("count + 1"))
	if err := tx.Error; err != nil {
		return false, postgres.Translate(err, entity)
	}
	return tx.RowsAffected == 1, nil
}

// Delete removes the id token. It fails with a not found error if the
// token was removed already, so concurrent consumers of one token can
// not both succeed.
func Delete[Q postgres.Queryer](ctx context.Context, q Q, id int64) error {
	tx := q.GORM(ctx).Delete(&tables.AccountToken{}, id)
	if err := tx.Error; err != nil {
		return postgres.Translate(err, entity)
	}
	return postgres.MustAffect(tx.RowsAffected, entity)
}

// DeleteExpired removes all tokens which expire before or at now and
// returns their count.
func DeleteExpired[Q postgres.Queryer](ctx context.Context, q Q, now time.Time) (int64, error) {
	tx := q.GORM(ctx).Where("expires_at <= ?", now.UTC()).
		Delete(&tables.AccountToken{})
	if err := tx.Error; err != nil {
		return 0, postgres.Translate(err, entity)
	}
	return tx.RowsAffected, nil
}
