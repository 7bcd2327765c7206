// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, postgres.Translate(nil, "user"))

	cases := []struct {
		err  error
		code int
	}{
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{fmt.Errorf("take: %w", gorm.ErrRecordNotFound), http.StatusNotFound},
		{gorm.ErrDuplicatedKey, http.StatusConflict},
		{gorm.ErrForeignKeyViolated, http.StatusBadRequest},
		{&pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{&pgconn.PgError{Code: "23503"}, http.StatusBadRequest},
		{&pgconn.PgError{Code: "23514", ConstraintName: "positive_price"}, http.StatusBadRequest},
		{&pgconn.PgError{Code: "40001"}, http.StatusInternalServerError},
		{errors.New("UNIQUE constraint failed: users.username"), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		err := postgres.Translate(c.err, "user")
		assert.Equal(t, c.code, cerr.StatusCode(err), "%v", c.err)
	}

	err := postgres.Translate(gorm.ErrRecordNotFound, "fuel station")
	assert.EqualError(t, err, "[404] fuel station not found")
	err = postgres.Translate(&pgconn.PgError{Code: "23514", ConstraintName: "positive_price"}, "fuel price")
	assert.ErrorContains(t, err, "fuel price violates positive_price")
}

func TestMustAffect(t *testing.T) {
	assert.NoError(t, postgres.MustAffect(1, "review"))
	err := postgres.MustAffect(0, "review")
	assert.True(t, cerr.Is(err, http.StatusNotFound))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "shell", postgres.EscapeLike("Shell"))
	assert.Equal(t, `100\% a\_b c\\d`, postgres.EscapeLike(`100% A_B C\D`))
}
