// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/core/repo"
	"gorm.io/gorm"
)

// Tx is a transaction which is started by Conn.Tx and it implements
// the repo.Tx interface. The *rp packages reach its *gorm.DB through
// the GORM method.
type Tx struct {
	*gorm.DB
}

func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return execute(tx.GORM(ctx), sql, args)
}

func (tx *Tx) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	return query(tx.GORM(ctx), sql, args)
}

func (tx *Tx) IsTx() {
}

func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}

// execute runs sql with the ?, @name, or $n placeholders bound to args
// and returns the number of affected rows. Without args, sql may hold
// several semicolon separated statements.
func execute(gdb *gorm.DB, sql string, args []any) (int64, error) {
	gdb = gdb.Exec(sql, args...)
	if err := gdb.Error; err != nil {
		return 0, err
	}
	return gdb.RowsAffected, nil
}

// query runs a single sql statement and returns its result set.
// The connection may not run other statements before it is closed.
func query(gdb *gorm.DB, sql string, args []any) (repo.Rows, error) {
	rows, err := gdb.Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	return rows, nil
}
