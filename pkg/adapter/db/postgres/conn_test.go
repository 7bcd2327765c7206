// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/momeni/fuelfinder/internal/test/sqlitedb"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxCommitsOnlySuccessfulHandlers(t *testing.T) {
	ctx := context.Background()
	p := sqlitedb.New(ctx, t)
	notes := func(c repo.Conn) []string {
		rows, err := c.Query(ctx, "SELECT body FROM notes ORDER BY body")
		require.NoError(t, err)
		var bodies []string
		for rows.Next() {
			var b string
			require.NoError(t, rows.Scan(&b))
			bodies = append(bodies, b)
		}
		require.NoError(t, errors.Join(rows.Err(), rows.Close()))
		return bodies
	}
	insert := func(body string) repo.TxHandler {
		return func(ctx context.Context, tx repo.Tx) error {
			n, err := tx.Exec(ctx, "INSERT INTO notes (body) VALUES (?)", body)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			return nil
		}
	}

	require.NoError(t, p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if _, err := c.Exec(ctx, "CREATE TABLE notes (body TEXT)"); err != nil {
			return err
		}
		require.NoError(t, c.Tx(ctx, insert("committed")))

		err := c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			require.NoError(t, insert("failed")(ctx, tx))
			return cerr.NotFound(errors.New("no such station"))
		})
		assert.Equal(t, http.StatusNotFound, cerr.StatusCode(err))

		err = c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			require.NoError(t, insert("panicked")(ctx, tx))
			panic("boom")
		})
		assert.ErrorContains(t, err, "panicked: boom")

		assert.Equal(t, []string{"committed"}, notes(c))
		return nil
	}))
}
