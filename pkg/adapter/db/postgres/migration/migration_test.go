// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration_test

import (
	"context"
	"testing"
	"time"

	"github.com/momeni/fuelfinder/internal/test/dbcontainer"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/fuelfinder/pkg/adapter/hash/scram"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const latestVersion = 4

func tableExists(ctx context.Context, t *testing.T, p *postgres.Pool, name string) bool {
	t.Helper()
	var n int64
	err := p.DB.WithContext(ctx).Raw(
		`SELECT count(*) FROM information_schema.tables
WHERE table_schema='public' AND table_name=?`, name,
	).Scan(&n).Error
	require.NoError(t, err)
	return n == 1
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	m, ok := dbcontainer.Migrate(ctx, pool, t)
	if !ok {
		return
	}

	v, dirty, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(latestVersion), v)
	assert.False(t, dirty)
	assert.True(t, tableExists(ctx, t, pool, "reviews"))
	assert.True(t, tableExists(ctx, t, pool, "fuel_prices"))

	require.NoError(t, m.Down(ctx, 2))
	v, _, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(latestVersion-2), v)
	assert.False(t, tableExists(ctx, t, pool, "reviews"))
	assert.True(t, tableExists(ctx, t, pool, "fuel_stations"))
	assert.Error(t, m.Down(ctx, 0))

	require.NoError(t, m.Reset(ctx))
	v, _, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, tableExists(ctx, t, pool, "users"))

	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Up(ctx), "no change is not an error")
	require.NoError(t, m.Force(ctx, latestVersion))
	v, _, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(latestVersion), v)

	t.Run("roles", func(t *testing.T) {
		testRoles(ctx, t, pool)
	})
}

func testRoles(ctx context.Context, t *testing.T, pool *postgres.Pool) {
	schema := schemarp.New("_mig_test", scram.SHA256())
	role := repo.NormalRole + "_mig_test"
	for i := 0; i < 2; i++ {
		err := pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				q := schema.Tx(tx)
				if err := q.CreateRoleIfNotExists(ctx, repo.NormalRole); err != nil {
					return err
				}
				if err := q.GrantPrivileges(ctx, repo.NormalRole); err != nil {
					return err
				}
				return q.ChangePasswords(
					ctx, []repo.Role{repo.NormalRole}, []string{"Pa55word"},
				)
			})
		})
		require.NoError(t, err, "round %d", i)
	}

	var canInsert bool
	err := pool.DB.WithContext(ctx).Raw(
		`SELECT has_table_privilege(?, 'public.fuel_prices', 'INSERT')`,
		string(role),
	).Scan(&canInsert).Error
	require.NoError(t, err)
	assert.True(t, canInsert)

	var verifier string
	err = pool.DB.WithContext(ctx).Raw(
		`SELECT rolpassword FROM pg_authid WHERE rolname=?`, string(role),
	).Scan(&verifier).Error
	require.NoError(t, err)
	assert.Regexp(t, `^SCRAM-SHA-256\$4096:`, verifier)

	err = pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return schema.Tx(tx).ChangePasswords(
				ctx, []repo.Role{repo.NormalRole}, nil,
			)
		})
	})
	assert.Error(t, err)
}
