// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogin "github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/config/cfg1"
	"github.com/momeni/fuelfinder/pkg/adapter/config/settings"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/usecase/appuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ appuc.Builder = (*cfg1.Config)(nil)

const secret = "0123456789abcdef0123456789abcdef"

const minimal = `
database:
  name: fuelfinder
  pass-dir: /tmp
auth:
  jwt-secret: ` + secret + `
versions:
  config: 1.0.0
`

func TestLoadFillsDefaults(t *testing.T) {
	t.Setenv(cfg1.EnvDatabaseURL, "")
	t.Setenv(cfg1.EnvJWTSecret, "")
	c, err := cfg1.Load([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", c.Database.Host)
	assert.Equal(t, 5432, c.Database.Port)
	assert.Equal(t, "scram-sha-256", c.Database.AuthMethod)
	assert.False(t, *c.Gin.Logger)
	assert.False(t, *c.Gin.Metrics)
	assert.Equal(t, ":8080", c.Gin.Address)
	assert.Equal(t, "release", c.Gin.Mode)
	assert.Equal(t, "/metrics", c.Gin.MetricsPath)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "fuelfinder", c.Auth.Issuer)
	assert.Equal(t, settings.Duration(24*time.Hour), *c.Auth.TokenLifetime)
	assert.Equal(t, 4096, *c.Auth.HashIterations)
	assert.Equal(t, 20, *c.Usecases.Pagination.DefaultPageSize)
	assert.Equal(t, 100, *c.Usecases.Pagination.MaxPageSize)
	assert.Equal(t, 10.0, *c.Usecases.Search.DefaultRadius)
	assert.Equal(t, 100.0, *c.Usecases.Search.MaxRadius)
	assert.False(t, *c.Usecases.Accounts.RevealCodes)
	assert.Nil(t, c.Usecases.Accounts.MaxTokenAttempts)
	assert.False(t, *c.RateLimit.Enabled)
	assert.Nil(t, c.RateLimit.NewRateLimiter())
	assert.Equal(t, "@every 1h", c.Janitor.Schedule)
	assert.Equal(t, settings.Duration(time.Minute), *c.Janitor.Timeout)
}

func TestLoadSampleConfig(t *testing.T) {
	t.Setenv(cfg1.EnvJWTSecret, secret)
	t.Setenv(cfg1.EnvDatabaseURL, "")
	data, err := os.ReadFile("../../../../configs/sample-config.yaml")
	require.NoError(t, err)
	c, err := cfg1.Load(data)
	require.NoError(t, err)

	assert.Equal(t, secret, c.Auth.JWTSecret)
	assert.Equal(t, 15000, *c.Auth.HashIterations)
	assert.Equal(t, 5, *c.Usecases.Accounts.MaxTokenAttempts)
	assert.Equal(
		t, settings.Duration(15*time.Minute),
		*c.Usecases.Accounts.ResetTokenLifetime,
	)
	assert.True(t, *c.RateLimit.Enabled)
	assert.NotNil(t, c.RateLimit.NewRateLimiter())
	ti, err := c.Auth.NewTokenIssuer()
	require.NoError(t, err)
	assert.NotNil(t, ti)
}

func TestEnvironmentOverridesSecrets(t *testing.T) {
	other := strings.Repeat("s", 40)
	t.Setenv(cfg1.EnvJWTSecret, other)
	t.Setenv(cfg1.EnvDatabaseURL, "postgresql://u:p@db:5432/fuel")
	c, err := cfg1.Load([]byte(minimal))
	require.NoError(t, err)
	assert.Equal(t, other, c.Auth.JWTSecret)
	assert.Equal(t, "postgresql://u:p@db:5432/fuel", c.Database.URL)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv(cfg1.EnvDatabaseURL, "")
	t.Setenv(cfg1.EnvJWTSecret, "")
	for name, tc := range map[string]struct {
		yaml string
		msg  string
	}{
		"major version": {
			yaml: strings.Replace(minimal, "config: 1.0.0", "config: 2.0.0", 1),
			msg:  "incompatible major version",
		},
		"minor version": {
			yaml: strings.Replace(minimal, "config: 1.0.0", "config: 1.9.0", 1),
			msg:  "unsupported minor version",
		},
		"short secret": {
			yaml: strings.Replace(minimal, secret, "short", 1),
			msg:  "jwt secret",
		},
		"auth method": {
			yaml: strings.Replace(
				minimal, "database:\n", "database:\n  auth-method: md5\n", 1,
			),
			msg: "unsupported database authentication method",
		},
		"log level": {
			yaml: minimal + "log:\n  level: loud\n",
			msg:  "log level",
		},
		"gin mode": {
			yaml: minimal + "gin:\n  mode: turbo\n",
			msg:  "gin mode",
		},
		"hash iterations": {
			yaml: strings.Replace(
				minimal, "auth:\n", "auth:\n  hash-iterations: 1000\n", 1,
			),
			msg: "hash iterations",
		},
		"page sizes": {
			yaml: minimal + "usecases:\n  pagination:\n    default-page-size: 50\n    max-page-size: 10\n",
			msg:  "default page size",
		},
		"search radius": {
			yaml: minimal + "usecases:\n  search:\n    default-radius: 50\n    max-radius: 10\n",
			msg:  "search radius",
		},
		"trusted proxy": {
			yaml: minimal + "gin:\n  trusted-proxies: [10.0.0.0/8, proxy.local]\n",
			msg:  "invalid trusted proxy",
		},
		"empty document": {
			yaml: "",
			msg:  "children nodes",
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := cfg1.Load([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestNewEngineTrustsConfiguredProxies(t *testing.T) {
	t.Setenv(cfg1.EnvDatabaseURL, "")
	t.Setenv(cfg1.EnvJWTSecret, "")
	c, err := cfg1.Load([]byte(minimal + `gin:
  mode: test
  trusted-proxies: [10.0.0.0/8, 192.0.2.7]
rate-limit:
  enabled: true
  requests-per-second: 0.001
  burst: 1
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.7"}, c.Gin.TrustedProxies)
	e, err := c.Gin.NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)), c.RateLimit.NewRateLimiter())
	require.NoError(t, err)
	e.GET("/ping", func(gc *gogin.Context) { gc.Status(http.StatusNoContent) })

	send := func(peer, xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = peer + ":5555"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, send("10.1.2.3", "203.0.113.1"))
	assert.Equal(t, http.StatusNoContent, send("192.0.2.7", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.9.9.9", "203.0.113.1"))
	assert.Equal(t, http.StatusNoContent, send("198.51.100.1", "203.0.113.3"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1", "203.0.113.4"))
}

func TestTokenLifetimeIsClamped(t *testing.T) {
	t.Setenv(cfg1.EnvDatabaseURL, "")
	t.Setenv(cfg1.EnvJWTSecret, "")
	y := strings.Replace(minimal, "auth:\n", `auth:
  token-lifetime: 720h
  token-lifetime-maximum: 168h
`, 1)
	c, err := cfg1.Load([]byte(y))
	require.NoError(t, err)
	assert.Equal(t, settings.Duration(168*time.Hour), *c.Auth.TokenLifetime)
}

func TestConnectionURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pgpass")
	require.NoError(t, os.WriteFile(path, []byte(`# comment
db:5432:fuelfinder:admin_t1:admin1
db:5432:fuelfinder:fuelweb_t1:s3cret
`), 0o600))
	d := cfg1.Database{
		Host: "db", Port: 5432, Name: "fuelfinder", RoleSuffix: "_t1",
	}
	u, err := d.ConnectionURL(repo.NormalRole, path)
	require.NoError(t, err)
	assert.Equal(t, "postgresql://fuelweb_t1:s3cret@db:5432/fuelfinder", u)

	d.RoleSuffix = ""
	_, err = d.ConnectionURL(repo.NormalRole, path)
	assert.ErrorContains(t, err, "no matching password line")
}

func TestRenewPasswords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pgpass")
	require.NoError(t, os.WriteFile(
		path, []byte("db:5432:fuelfinder:admin:admin1\ndb:5432:fuelfinder:fuelweb:old\n"), 0o600,
	))
	d := cfg1.Database{
		Host: "db", Port: 5432, Name: "fuelfinder", PassDir: dir,
	}
	var changed []string
	finalizer, err := d.RenewPasswords(
		context.Background(),
		func(_ context.Context, roles []repo.Role, passwords []string) error {
			assert.Equal(t, []repo.Role{repo.NormalRole}, roles)
			changed = passwords
			return nil
		},
		repo.NormalRole,
	)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Len(t, changed[0], 22)

	// the old file is in effect until the finalizer is called
	u, err := d.ConnectionURL(repo.NormalRole, path)
	require.NoError(t, err)
	assert.Contains(t, u, ":old@")

	require.NoError(t, finalizer())
	u, err = d.ConnectionURL(repo.NormalRole, path)
	require.NoError(t, err)
	pu, err := url.Parse(u)
	require.NoError(t, err)
	pass, _ := pu.User.Password()
	assert.Equal(t, changed[0], pass)
	u, err = d.ConnectionURL(repo.AdminRole, path)
	require.NoError(t, err)
	assert.Contains(t, u, "admin:admin1@")
}
