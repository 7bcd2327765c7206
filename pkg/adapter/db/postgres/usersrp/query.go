// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"
	"strings"

	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/core/model"
)

const entity = "user"

// Model converts a users table row to a model.User.
func Model(u *tables.User) *model.User {
	return &model.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmed,
		PasswordHash:   u.Password,
		Role:           model.Role(u.Role),
		Status:         model.AccountStatus(u.Status),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, u *model.User) (*model.User, error) {
	row := &tables.User{
		Username:       u.Username,
		Email:          strings.ToLower(u.Email),
		EmailConfirmed: u.EmailConfirmed,
		Password:       u.PasswordHash,
		Role:           string(u.Role),
		Status:         string(u.Status),
	}
	if err := q.GORM(ctx).Create(row).Error; err != nil {
		return nil, postgres.Translate(err, entity)
	}
	return Model(row), nil
}

func ByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.User, error) {
	return first(ctx, q, "id = ?", id)
}

func ByUsername[Q postgres.Queryer](ctx context.Context, q Q, username string) (*model.User, error) {
	return first(ctx, q, "lower(username) = lower(?)", username)
}

func ByEmail[Q postgres.Queryer](ctx context.Context, q Q, email string) (*model.User, error) {
	return first(ctx, q, "lower(email) = lower(?)", email)
}

func first[Q postgres.Queryer](ctx context.Context, q Q, cond string, arg any) (*model.User, error) {
	var row tables.User
	if err := q.GORM(ctx).Where(cond, arg).Take(&row).Error; err != nil {
		return nil, postgres.Translate(err, entity)
	}
	return Model(&row), nil
}

// Taken reports whether the username or email are used by existing
// (not deleted) accounts, ignoring letter cases.
func Taken[Q postgres.Queryer](ctx context.Context, q Q, username, email string) (usernameTaken, emailTaken bool, err error) {
	var n int64
	err = q.GORM(ctx).Model(&tables.User{}).
		Where("lower(username) = lower(?)", username).
		Count(&n).Error
	if err != nil {
		return false, false, postgres.Translate(err, entity)
	}
	usernameTaken = n > 0
	err = q.GORM(ctx).Model(&tables.User{}).
		Where("lower(email) = lower(?)", email).
		Count(&n).Error
	if err != nil {
		return false, false, postgres.Translate(err, entity)
	}
	return usernameTaken, n > 0, nil
}

func UpdatePassword[Q postgres.Queryer](ctx context.Context, q Q, id int64, hash string) error {
	return update(ctx, q, id, map[string]any{"password": hash})
}

// ConfirmEmail marks the e-mail of the id user as confirmed and
// activates the account if it was a new one. Banned accounts remain
// banned.
func ConfirmEmail[Q postgres.Queryer](ctx context.Context, q Q, id int64) error {
	if err := update(ctx, q, id, map[string]any{"email_confirmed": true}); err != nil {
		return err
	}
	err := q.GORM(ctx).Model(&tables.User{}).
		Where("id = ? AND status = ?", id, string(model.StatusNew)).
		Update("status", string(model.StatusActive)).Error
	return postgres.Translate(err, entity)
}

func update[Q postgres.Queryer](ctx context.Context, q Q, id int64, cols map[string]any) error {
	tx := q.GORM(ctx).Model(&tables.User{}).Where("id = ?", id).Updates(cols)
	if err := tx.Error; err != nil {
		return postgres.Translate(err, entity)
	}
	return postgres.MustAffect(tx.RowsAffected, entity)
}

// Delete soft-deletes the id user, so its username and email may be
// registered again while its reviews keep their author.
func Delete[Q postgres.Queryer](ctx context.Context, q Q, id int64) error {
	tx := q.GORM(ctx).Delete(&tables.User{}, id)
	if err := tx.Error; err != nil {
		return postgres.Translate(err, entity)
	}
	return postgres.MustAffect(tx.RowsAffected, entity)
}
