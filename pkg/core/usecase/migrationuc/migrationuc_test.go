// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/momeni/fuelfinder/internal/test/sqlitedb"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/catalogrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/pricesrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/stationsrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tables"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/fuelfinder/pkg/adapter/hash/scram"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = migrationuc.Admin{
	Username: "root",
	Email:    "Root@Example.com",
	Password: "Admin1234",
}

// fakeMigrator keeps the schema version in memory. The latest version
// is reached by Up and err (if set) is returned by all methods.
type fakeMigrator struct {
	version, latest uint
	dirty           bool
	err             error
	forced          []int
}

func (fm *fakeMigrator) Up(context.Context) error {
	if fm.err != nil {
		return fm.err
	}
	fm.version = fm.latest
	return nil
}

func (fm *fakeMigrator) Down(_ context.Context, steps int) error {
	if fm.err != nil {
		return fm.err
	}
	fm.version -= uint(steps)
	return nil
}

func (fm *fakeMigrator) Reset(context.Context) error {
	if fm.err != nil {
		return fm.err
	}
	fm.version = 0
	return nil
}

func (fm *fakeMigrator) Version(context.Context) (uint, bool, error) {
	return fm.version, fm.dirty, nil
}

func (fm *fakeMigrator) Force(_ context.Context, v int) error {
	if fm.err != nil {
		return fm.err
	}
	fm.forced = append(fm.forced, v)
	fm.dirty = false
	if v < 0 {
		fm.version = 0
	} else {
		fm.version = uint(v)
	}
	return nil
}

func TestMigrateDBUpAndDown(t *testing.T) {
	ctx := context.Background()
	fm := &fakeMigrator{latest: 4}
	mduc := migrationuc.NewMigrateDB(fm)

	from, to, err := mduc.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(0), from)
	assert.Equal(t, uint(4), to)

	from, to, err = mduc.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(4), from)
	assert.Equal(t, uint(4), to)

	from, to, err = mduc.Down(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(4), from)
	assert.Equal(t, uint(1), to)

	for _, steps := range []int{0, -1, 2} {
		_, _, err = mduc.Down(ctx, steps)
		assert.Error(t, err, "steps=%d", steps)
	}
	v, dirty, err := mduc.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)

	fm.err = errors.New("connection refused")
	_, _, err = mduc.Up(ctx)
	assert.ErrorIs(t, err, fm.err)
	_, _, err = mduc.Down(ctx, 1)
	assert.ErrorIs(t, err, fm.err)
}

func TestDirtySchemaMustBeForced(t *testing.T) {
	ctx := context.Background()
	fm := &fakeMigrator{version: 3, latest: 4, dirty: true}
	mduc := migrationuc.NewMigrateDB(fm)

	from, _, err := mduc.Up(ctx)
	require.ErrorIs(t, err, migrationuc.ErrDirty)
	assert.Contains(t, err.Error(), "version 3")
	assert.Equal(t, uint(3), from)
	_, _, err = mduc.Down(ctx, 1)
	assert.ErrorIs(t, err, migrationuc.ErrDirty)

	assert.Error(t, mduc.Force(ctx, -2))
	assert.Empty(t, fm.forced)
	require.NoError(t, mduc.Force(ctx, 2))
	from, to, err := mduc.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), from)
	assert.Equal(t, uint(4), to)

	require.NoError(t, mduc.Force(ctx, -1))
	assert.Equal(t, []int{2, -1}, fm.forced)
	v, _, err := mduc.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)
}

// gormMigrator recreates the tables of a test database, so the
// initialization use cases may be run on SQLite.
type gormMigrator struct {
	fakeMigrator
	pool   *postgres.Pool
	resets int
}

func (gm *gormMigrator) Reset(ctx context.Context) error {
	gm.resets++
	all := tables.All()
	m := gm.pool.DB.WithContext(ctx).Migrator()
	for i := len(all) - 1; i >= 0; i-- {
		if err := m.DropTable(all[i]); err != nil {
			return err
		}
	}
	return nil
}

func (gm *gormMigrator) Up(ctx context.Context) error {
	return gm.pool.DB.WithContext(ctx).AutoMigrate(tables.All()...)
}

func newInitDB(t *testing.T) (*migrationuc.InitDBUseCase, *gormMigrator) {
	p := sqlitedb.New(context.Background(), t)
	gm := &gormMigrator{pool: p}
	iduc := migrationuc.NewInitDB(
		gm, p, usersrp.New(), catalogrp.New(), stationsrp.New(),
		pricesrp.New(), scram.SHA256(), 4096,
	)
	return iduc, gm
}

func count(t *testing.T, p *postgres.Pool, table any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, p.DB.Model(table).Count(&n).Error)
	return n
}

func requireAdmin(t *testing.T, p *postgres.Pool) {
	t.Helper()
	ctx := context.Background()
	var u *model.User
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		u, err = usersrp.New().Conn(c).ByUsername(ctx, admin.Username)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, model.StatusActive, u.Status)
	assert.Equal(t, "root@example.com", u.Email)
	assert.True(t, u.EmailConfirmed)
	ok, err := scram.SHA256().Verify(u.PasswordHash, admin.Password)
	require.NoError(t, err)
	assert.True(t, ok, "admin password must be verifiable")
}

func TestInitProd(t *testing.T) {
	iduc, gm := newInitDB(t)
	ctx := context.Background()
	sqlitedb.CreateNamed(ctx, t, gm.pool, model.FuelTypes, "Leftover")

	require.NoError(t, iduc.InitProd(ctx, admin))
	assert.Equal(t, 1, gm.resets)
	requireAdmin(t, gm.pool)
	assert.Equal(t, int64(1), count(t, gm.pool, &tables.User{}))
	assert.Zero(t, count(t, gm.pool, &tables.FuelType{}))
	assert.Zero(t, count(t, gm.pool, &tables.FuelStation{}))
}

func TestInitDev(t *testing.T) {
	iduc, gm := newInitDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, iduc.InitDev(ctx, admin), "round %d", i)
		requireAdmin(t, gm.pool)
		p := gm.pool
		assert.Equal(t, int64(6), count(t, p, &tables.FuelType{}))
		assert.Equal(t, int64(2), count(t, p, &tables.StationChain{}))
		assert.Equal(t, int64(5), count(t, p, &tables.StationService{}))
		assert.Equal(t, int64(3), count(t, p, &tables.FuelStation{}))
		assert.Equal(t, int64(9), count(t, p, &tables.FuelAtStation{}))
		assert.Equal(t, int64(7), count(t, p, &tables.ServiceAtStation{}))
		assert.Equal(t, int64(21), count(t, p, &tables.OpeningClosingTime{}))
		assert.Equal(t, int64(9), count(t, p, &tables.FuelPrice{}))
	}
	assert.Equal(t, 2, gm.resets)

	var accepted int64
	err := gm.pool.DB.Model(&tables.FuelPrice{}).
		Where("status = ?", string(model.PriceAccepted)).Count(&accepted).Error
	require.NoError(t, err)
	assert.Equal(t, int64(9), accepted)
	var chained int64
	err = gm.pool.DB.Model(&tables.FuelStation{}).
		Where("station_chain_id IS NOT NULL").Count(&chained).Error
	require.NoError(t, err)
	assert.Equal(t, int64(2), chained)
}

func TestInitRejectsInvalidAdmin(t *testing.T) {
	iduc, gm := newInitDB(t)
	ctx := context.Background()
	for name, a := range map[string]migrationuc.Admin{
		"short username": {Username: "ab", Email: "a@b.c", Password: "Admin1234"},
		"bad email":      {Username: "root", Email: "root", Password: "Admin1234"},
		"weak password":  {Username: "root", Email: "a@b.c", Password: "admin"},
	} {
		assert.Error(t, iduc.InitProd(ctx, a), name)
		assert.Error(t, iduc.InitDev(ctx, a), name)
	}
	assert.Zero(t, gm.resets)
}

func TestInitReportsMigrationErrors(t *testing.T) {
	p := sqlitedb.New(context.Background(), t)
	fm := &fakeMigrator{err: errors.New("permission denied")}
	iduc := migrationuc.NewInitDB(
		fm, p, usersrp.New(), catalogrp.New(), stationsrp.New(),
		pricesrp.New(), scram.SHA256(), 4096,
	)
	err := iduc.InitProd(context.Background(), admin)
	assert.ErrorIs(t, err, fm.err)
}

type schemaCall struct {
	op    string
	roles []repo.Role
}

type fakeSchema struct {
	calls []schemaCall
}

func (fs *fakeSchema) Tx(repo.Tx) repo.SchemaTxQueryer {
	return fs
}

func (fs *fakeSchema) CreateRoleIfNotExists(_ context.Context, r repo.Role) error {
	fs.calls = append(fs.calls, schemaCall{"create", []repo.Role{r}})
	return nil
}

func (fs *fakeSchema) GrantPrivileges(_ context.Context, r repo.Role) error {
	fs.calls = append(fs.calls, schemaCall{"grant", []repo.Role{r}})
	return nil
}

func (fs *fakeSchema) ChangePasswords(
	_ context.Context, roles []repo.Role, passwords []string,
) error {
	if len(roles) != len(passwords) {
		return errors.New("roles and passwords do not match")
	}
	fs.calls = append(fs.calls, schemaCall{"passwd", roles})
	return nil
}

func TestInitWithRoles(t *testing.T) {
	iduc, gm := newInitDB(t)
	ctx := context.Background()
	fs := &fakeSchema{}
	finalized := 0
	iduc.WithRoles(fs, func(
		ctx context.Context,
		change func(context.Context, []repo.Role, []string) error,
		roles ...repo.Role,
	) (func() error, error) {
		passes := make([]string, len(roles))
		for i := range passes {
			passes[i] = "Pa55word"
		}
		if err := change(ctx, roles, passes); err != nil {
			return nil, err
		}
		return func() error {
			finalized++
			return nil
		}, nil
	})

	require.NoError(t, iduc.InitProd(ctx, admin))
	assert.Equal(t, 1, finalized)
	assert.Equal(t, []schemaCall{
		{"create", []repo.Role{repo.NormalRole}},
		{"grant", []repo.Role{repo.NormalRole}},
		{"passwd", []repo.Role{repo.NormalRole}},
	}, fs.calls)
	requireAdmin(t, gm.pool)
}

func TestFailedRenewalRollsBack(t *testing.T) {
	iduc, gm := newInitDB(t)
	ctx := context.Background()
	renewErr := errors.New("pgpass is not writable")
	iduc.WithRoles(&fakeSchema{}, func(
		context.Context,
		func(context.Context, []repo.Role, []string) error,
		...repo.Role,
	) (func() error, error) {
		return nil, renewErr
	})

	err := iduc.InitDev(ctx, admin)
	require.ErrorIs(t, err, renewErr)
	assert.Zero(t, count(t, gm.pool, &tables.User{}))
	assert.Zero(t, count(t, gm.pool, &tables.FuelType{}))
}
