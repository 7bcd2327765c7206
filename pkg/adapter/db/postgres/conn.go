// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/fuelfinder/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn is a connection which is held by Pool.Conn during the run of
// its handler.
type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// Tx runs f in a transaction which is committed if f returns nil.
// It is rolled back if f fails or panics, and a panic is returned as
// an error.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	gtx := c.GORM(ctx).Begin()
	if err = gtx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = rollback(gtx, fmt.Errorf("panicked: %v", r))
			return
		}
		if err != nil {
			err = rollback(gtx, fmt.Errorf("handler: %w", err))
			return
		}
		if err = gtx.Commit().Error; err != nil {
			err = fmt.Errorf("commit: %w", err)
		}
	}()
	return f(ctx, &Tx{DB: gtx})
}

// rollback aborts gtx and returns cause, joined with the rollback
// error if it fails too.
func rollback(gtx *gorm.DB, cause error) error {
	if err := gtx.Rollback().Error; err != nil {
		return errors.Join(cause, fmt.Errorf("rollback: %w", err))
	}
	return cause
}

func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return execute(c.GORM(ctx), sql, args)
}

func (c *Conn) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	return query(c.GORM(ctx), sql, args)
}

func (c *Conn) IsConn() {
}

func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
