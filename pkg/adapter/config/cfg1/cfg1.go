// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// The Config struct also realizes the appuc.Builder interface, so the
// loaded settings can be turned into use case objects directly.
package cfg1

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/momeni/fuelfinder/pkg/adapter/auth/jwt"
	"github.com/momeni/fuelfinder/pkg/adapter/config/settings"
	"github.com/momeni/fuelfinder/pkg/adapter/config/vers"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/migration"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/fuelfinder/pkg/adapter/hash/scram"
	"github.com/momeni/fuelfinder/pkg/adapter/notify/lognotify"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin"
	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	scrami "github.com/momeni/fuelfinder/pkg/core/scram"
	"github.com/momeni/fuelfinder/pkg/core/usecase/accountsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/appuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/catalogsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/favoritesuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/pricesuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/reviewsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/stationsuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Environment variables which override the secrets of a config file,
// so they do not need to be written in it.
const (
	EnvDatabaseURL = "FUEL_DATABASE_URL"
	EnvJWTSecret   = "FUEL_JWT_SECRET"
)

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database  Database  // PostgreSQL database connection settings
	Gin       Gin       // Gin-Gonic instantiation settings
	Log       Log       // Structured logging settings
	Auth      Auth      // Bearer tokens and password hashing settings
	Usecases  Usecases  // Configuration settings for supported use cases
	RateLimit RateLimit `yaml:"rate-limit"` // Per client rate limiting
	Janitor   Janitor   // Periodic clean up jobs settings

	// Vers contains the configuration file version corresponding to
	// this Config instance.
	Vers vers.Config `yaml:",inline"`
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like fuelfinder
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// URL is an optional connection URL which takes precedence over
	// the other connection settings and the passwords dir. It may be
	// given by the FUEL_DATABASE_URL environment variable too. The same
	// URL is used for all roles.
	URL string `yaml:"url,omitempty"`

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod specifies the database authentication method name.
	// This method indicates how the database role passwords should be
	// hashed and stored in the database, so they may be used by an
	// authentication operation successfully.
	// Currently, only scram-sha-1 and scram-sha-256 methods are
	// supported. The scram-sha-256 is the default value.
	AuthMethod string `yaml:"auth-method,omitempty"`

	// hasher is instantiated based on the AuthMethod and is used by
	// the NewSchemaRepo method, so Schema repo instances may hash
	// passwords properly (as expected by the DBMS).
	hasher scrami.Hasher `yaml:"-"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"connecting to %q database as %q: %w", c.Database.Name, r, err,
		)
	}
	return p, nil
}

// Migrator connects to the database with the repo.AdminRole role and
// returns a schema migrator over that dedicated connection pool.
// Closing the migrator closes its pool too.
func (c *Config) Migrator(ctx context.Context) (*migration.Migrator, error) {
	p, err := c.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return nil, err
	}
	db, err := p.DB.DB()
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("obtaining *sql.DB: %w", err)
	}
	m, err := migration.New(db)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// NewSchemaRepo instantiates a fresh Schema repository.
// Role names are suffixed based on the settings.
func (c *Config) NewSchemaRepo() repo.Schema {
	return schemarp.New(c.Database.RoleSuffix, c.Database.hasher)
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in a temporary file, will use the change
// function in order to update the passwords of those roles in the
// database too. See Database.RenewPasswords for details.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// If the d.URL is set, it is used directly. Otherwise, initially, the
// .pgpass file in the d.PassDir folder is checked which should conform
// with the pgpass format with lines like this:
//
//	host:port:dbname:role:password
//
// If a database connection could be established, created pool and nil
// error will be returned. Otherwise, passwords might have been updated
// during a previous incomplete initialization. So the .pgpass.new
// file in the same d.PassDir folder is checked too. If a connection
// could be established successfully, the .pgpass.new will be moved to
// the .pgpass file, so the .pgpass.new file may be overwritten safely
// by the subsequent initialization operations.
//
// The `d.RoleSuffix` will be appended to the given `r` role name too.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	if d.URL != "" {
		return postgres.NewPool(ctx, d.URL)
	}
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	log.Warn(
		ctx, "failed to connect, trying the renewed pass-file",
		log.String("path", path), log.String("new-path", newPath),
		log.Err("err", err),
	)
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err = postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. These items are
// directly taken from the `d` settings, but the role name which is
// specified by the `r` argument and the password value which is read
// from the given `path` file. Returned URL has the postgresql scheme.
// The `path` file may contain empty or `#`-commented lines in addition
// to the password specifying lines which should conform with the pgpass
// files format with lines like this:
//
//	host:port:dbname:role:password
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in a temporary file (i.e., .pgpass.new file
// in the `d.PassDir` directory), will use the `change` function in
// order to update the passwords of those `roles` in the database too.
// The `change` function argument should perform the update operation
// in a transaction which may or may not be committed when the
// RenewPasswords function returns. In case of a successful commitment,
// the temporary passwords file should be moved over the main passwords
// file (i.e., .pgpass file in the `d.PassDir` directory) using the
// returned finalizer function.
//
// The `d.RoleSuffix` will be appended to the given role names in the
// written file. The `change` function must add the same suffix, as
// it is done by the schemarp.Repo.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	if d.URL != "" {
		return nil, errors.New("passwords of a database url are not managed")
	}
	passwords := make([]string, len(roles))
	b := make([]byte, 16) // 128 bits
	enc := base64.RawStdEncoding
	p := make([]byte, enc.EncodedLen(len(b))) // for each password
	prfx := fmt.Sprintf("%s:%d:%s", d.Host, d.Port, d.Name)
	lines := make([]string, len(passwords))
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("rand.Read for i=%d: %w", i, err)
		}
		enc.Encode(p, b)
		passwords[i] = string(p)
		r = r + d.RoleSuffix
		lines[i] = fmt.Sprintf("%s:%s:%s\n", prfx, r, passwords[i])
	}
	orgPath := filepath.Join(d.PassDir, ".pgpass")
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	// Lines of the other roles (e.g., the admin) are carried over.
	if old, err := os.ReadFile(orgPath); err == nil {
		for _, line := range strings.Split(string(old), "\n") {
			if line == "" || renewed(line, prfx, d.RoleSuffix, roles) {
				continue
			}
			lines = append(lines, line+"\n")
		}
	}
	finalizer = func() error {
		return os.Rename(newPath, orgPath)
	}
	err = os.WriteFile(newPath, []byte(strings.Join(lines, "")), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return finalizer, nil
}

func renewed(line, prfx string, suffix repo.Role, roles []repo.Role) bool {
	for _, r := range roles {
		if strings.HasPrefix(line, fmt.Sprintf("%s:%s:", prfx, r+suffix)) {
			return true
		}
	}
	return false
}

// ValidateAndNormalize validates the database settings and returns an
// error if they were not acceptable. It can also modify settings in
// order to normalize them or replace some zero values with their
// expected default values (if any). So, it takes a pointer receiver
// instead of a non-reference receiver (in contrast to other methods).
func (d *Database) ValidateAndNormalize() error {
	if u := os.Getenv(EnvDatabaseURL); u != "" {
		d.URL = u
	}
	switch am := d.AuthMethod; am {
	case "scram-sha-1":
		d.hasher = scram.SHA1()
	case "":
		d.AuthMethod = "scram-sha-256"
		fallthrough
	case "scram-sha-256":
		d.hasher = scram.SHA256()
	default:
		return fmt.Errorf(
			"unsupported database authentication method: %q", am,
		)
	}
	if d.URL != "" {
		return nil
	}
	if d.Host == "" {
		d.Host = "127.0.0.1"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	switch {
	case d.Port < 0 || d.Port > 65535:
		return fmt.Errorf("invalid database port: %d", d.Port)
	case d.Name == "":
		return errors.New("database name is required")
	}
	return nil
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their default values.
type Gin struct {
	Logger   *bool // Whether to register the access log middleware
	Recovery *bool // Whether to register the recovery middleware
	Metrics  *bool // Whether to collect and expose Prometheus metrics

	Address     string // listening address, like :8080
	Mode        string // one of debug, release (default), and test
	MetricsPath string `yaml:"metrics-path"` // defaults to /metrics

	// TrustedProxies lists the IP addresses or CIDR ranges of reverse
	// proxies whose X-Forwarded-For headers identify the clients.
	// Requests from other peers are identified by their own address.
	TrustedProxies []string `yaml:"trusted-proxies"`
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. Its middlewares log using l and the requests are
// limited using rl (if it is not nil).
func (g Gin) NewEngine(l *slog.Logger, rl *gin.RateLimiter) (*gin.Engine, error) {
	gin.SetMode(g.Mode)
	middlewares := make([]gin.HandlerFunc, 0, 3)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger(l))
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery(l))
	}
	e := gin.New(middlewares...)
	if err := e.SetTrustedProxies(g.TrustedProxies); err != nil {
		return nil, fmt.Errorf("setting trusted proxies: %w", err)
	}
	if *g.Metrics {
		gin.NewMetrics().Register(e, g.MetricsPath)
	}
	if rl != nil {
		e.Use(rl.Middleware())
	}
	return e, nil
}

func (g *Gin) validateAndNormalize() error {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
	settings.Nil2Zero(&g.Metrics)
	if g.Address == "" {
		g.Address = ":8080"
	}
	switch g.Mode {
	case "":
		g.Mode = "release"
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported gin mode: %q", g.Mode)
	}
	if g.MetricsPath == "" {
		g.MetricsPath = "/metrics"
	}
	if !strings.HasPrefix(g.MetricsPath, "/") {
		return fmt.Errorf("metrics path must be absolute: %q", g.MetricsPath)
	}
	for _, p := range g.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("invalid trusted proxy: %q", p)
		}
	}
	return nil
}

// Log contains the structured logging settings.
type Log struct {
	Level  string // one of debug, info (default), warn, and error
	Format string // either text (default) or json
}

// NewLogger creates a slog.Logger which writes to w according to
// the `lc` settings.
func (lc Log) NewLogger(w io.Writer) *slog.Logger {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(lc.Level)) // validated beforehand
	opts := &slog.HandlerOptions{AddSource: true, Level: lvl}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (lc *Log) validateAndNormalize() error {
	if lc.Level == "" {
		lc.Level = "info"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(lc.Level)); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch lc.Format {
	case "":
		lc.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %q", lc.Format)
	}
	return nil
}

// Auth contains the bearer tokens and the password hashing settings.
type Auth struct {
	// JWTSecret is the HMAC secret of the issued tokens. It should be
	// given by the FUEL_JWT_SECRET environment variable instead of
	// being written in the config file.
	JWTSecret string `yaml:"jwt-secret,omitempty"`
	Issuer    string // the iss claim of tokens, defaults to fuelfinder

	TokenLifetime    *settings.Duration `yaml:"token-lifetime"`
	MinTokenLifetime *settings.Duration `yaml:"token-lifetime-minimum"`
	MaxTokenLifetime *settings.Duration `yaml:"token-lifetime-maximum"`

	// HashIterations is the PBKDF2 iterations count of the account
	// passwords and the one-time codes. At least 4096 is required.
	HashIterations *int `yaml:"hash-iterations"`
}

// NewTokenIssuer creates a bearer token issuer based on the `a`
// settings.
func (a Auth) NewTokenIssuer() (*jwt.Issuer, error) {
	return jwt.New(
		[]byte(a.JWTSecret), a.Issuer, time.Duration(*a.TokenLifetime),
	)
}

func (a *Auth) validateAndNormalize() error {
	if s := os.Getenv(EnvJWTSecret); s != "" {
		a.JWTSecret = s
	}
	if len(a.JWTSecret) < jwt.MinSecretLength {
		return fmt.Errorf(
			"jwt secret must have at least %d bytes (see %s)",
			jwt.MinSecretLength, EnvJWTSecret,
		)
	}
	if a.Issuer == "" {
		a.Issuer = "fuelfinder"
	}
	settings.Default(&a.TokenLifetime, settings.Duration(24*time.Hour))
	if err := settings.VerifyRange(
		&a.TokenLifetime, a.MinTokenLifetime, a.MaxTokenLifetime,
	); err != nil && err.Value == nil {
		return fmt.Errorf("token lifetime: %w", err)
	} else if err != nil {
		log.Warn(
			context.Background(),
			"token lifetime is adjusted by boundary values",
			log.Valuer("value", err.Value),
			log.Valuer("minb", a.MinTokenLifetime),
			log.Valuer("maxb", a.MaxTokenLifetime),
		)
	}
	if *a.TokenLifetime <= 0 {
		return errors.New("token lifetime must be positive")
	}
	minIters := scram.MinIterations
	if err := settings.VerifyRange(
		&a.HashIterations, &minIters, nil,
	); err != nil {
		return fmt.Errorf("hash iterations: %w", err)
	}
	settings.Default(&a.HashIterations, minIters)
	return nil
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Accounts   Accounts   // accounts use cases related settings
	Pagination Pagination // page sizes of all paginated use cases
	Search     Search     // fuel stations search settings
}

// Accounts contains the configuration settings of the accounts use
// cases. Nil fields are left to the accountsuc defaults.
type Accounts struct {
	VerificationTokenLifetime *settings.Duration `yaml:"verification-token-lifetime"`
	ResetTokenLifetime        *settings.Duration `yaml:"reset-token-lifetime"`
	MaxTokenAttempts          *int               `yaml:"max-token-attempts"`

	// RevealCodes makes the log notifier to log the one-time codes
	// in plaintext. It must only be enabled during development.
	RevealCodes *bool `yaml:"reveal-codes"`
}

// Pagination contains the page sizes of paginated queries.
type Pagination struct {
	DefaultPageSize *int `yaml:"default-page-size"`
	MaxPageSize     *int `yaml:"max-page-size"`
}

// Search contains the radius settings of the fuel stations search in
// kilometres.
type Search struct {
	DefaultRadius *float64 `yaml:"default-radius"`
	MaxRadius     *float64 `yaml:"max-radius"`
}

func (uc *Usecases) validateAndNormalize() error {
	settings.Nil2Zero(&uc.Accounts.RevealCodes)
	one := 1
	if err := settings.VerifyRange(
		&uc.Accounts.MaxTokenAttempts, &one, nil,
	); err != nil {
		return fmt.Errorf("max token attempts: %w", err)
	}
	for name, d := range map[string]*settings.Duration{
		"verification token lifetime": uc.Accounts.VerificationTokenLifetime,
		"reset token lifetime":        uc.Accounts.ResetTokenLifetime,
	} {
		if d != nil && *d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	pg := &uc.Pagination
	settings.Default(&pg.DefaultPageSize, 20)
	settings.Default(&pg.MaxPageSize, max(100, *pg.DefaultPageSize))
	if err := settings.VerifyRange(
		&pg.DefaultPageSize, &one, pg.MaxPageSize,
	); err != nil {
		return fmt.Errorf("default page size: %w", err)
	}
	s := &uc.Search
	settings.Default(&s.DefaultRadius, 10.0)
	settings.Default(&s.MaxRadius, max(100.0, *s.DefaultRadius))
	if *s.DefaultRadius <= 0 || *s.MaxRadius < *s.DefaultRadius {
		return fmt.Errorf(
			"invalid search radius: default=%v max=%v",
			*s.DefaultRadius, *s.MaxRadius,
		)
	}
	return nil
}

func (pg Pagination) model() model.Pagination {
	return model.Pagination{
		DefaultPageSize: *pg.DefaultPageSize,
		MaxPageSize:     *pg.MaxPageSize,
	}
}

// RateLimit contains the per client (IP address) rate limiting
// settings.
type RateLimit struct {
	Enabled           *bool
	RequestsPerSecond *float64           `yaml:"requests-per-second"`
	Burst             *int               `yaml:"burst"`
	IdleTimeout       *settings.Duration `yaml:"idle-timeout"`
}

// NewRateLimiter creates a rate limiter based on the `r` settings or
// returns nil if the rate limiting is disabled.
func (r RateLimit) NewRateLimiter() *gin.RateLimiter {
	if !*r.Enabled {
		return nil
	}
	return gin.NewRateLimiter(
		*r.RequestsPerSecond, *r.Burst, time.Duration(*r.IdleTimeout),
	)
}

func (r *RateLimit) validateAndNormalize() error {
	settings.Nil2Zero(&r.Enabled)
	settings.Default(&r.RequestsPerSecond, 10.0)
	settings.Default(&r.Burst, 20)
	settings.Default(&r.IdleTimeout, settings.Duration(10*time.Minute))
	if *r.RequestsPerSecond <= 0 || *r.Burst <= 0 || *r.IdleTimeout <= 0 {
		return fmt.Errorf(
			"rate limit settings must be positive: rps=%v burst=%d idle=%v",
			*r.RequestsPerSecond, *r.Burst, *r.IdleTimeout,
		)
	}
	return nil
}

// Janitor contains the periodic clean up jobs settings.
type Janitor struct {
	Schedule string             // cron spec, defaults to @every 1h
	Timeout  *settings.Duration // timeout of each run, defaults to 1m
}

func (j *Janitor) validateAndNormalize() {
	if j.Schedule == "" {
		j.Schedule = "@every 1h"
	}
	settings.Default(&j.Timeout, settings.Duration(time.Minute))
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable (for example
// the major version which is reported by data settings must match
// with number 1 which is the major version of this config package).
// Secrets are overridden by the FUEL_ environment variables during
// the validation.
func Load(data []byte) (*Config, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if l := len(n.Content); l != 1 {
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	c := &Config{}
	if err := n.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding yaml node: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Versions.Config.Readable(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Gin.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating gin settings: %w", err)
	}
	if err := c.Log.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating log settings: %w", err)
	}
	if err := c.Auth.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	if err := c.Usecases.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating use cases settings: %w", err)
	}
	if err := c.RateLimit.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating rate limit settings: %w", err)
	}
	c.Janitor.validateAndNormalize()
	return nil
}

// Version returns the format version which is written in the loaded
// config file. Its major component is always 1.
func (c *Config) Version() vers.Version {
	return c.Vers.Versions.Config
}

// NewAccountsUseCase instantiates an accounts use case. Account
// passwords are always hashed with SCRAM-SHA-256, independent of the
// database auth-method which is only used for the database roles.
func (c *Config) NewAccountsUseCase(
	p repo.Pool, r appuc.Repos,
) (*accountsuc.UseCase, error) {
	ti, err := c.Auth.NewTokenIssuer()
	if err != nil {
		return nil, fmt.Errorf("creating token issuer: %w", err)
	}
	a := c.Usecases.Accounts
	opts := []accountsuc.Option{
		accountsuc.WithHashIterations(*c.Auth.HashIterations),
	}
	if a.VerificationTokenLifetime != nil {
		d := time.Duration(*a.VerificationTokenLifetime)
		opts = append(opts, accountsuc.WithVerificationTokenLifetime(d))
	}
	if a.ResetTokenLifetime != nil {
		d := time.Duration(*a.ResetTokenLifetime)
		opts = append(opts, accountsuc.WithResetTokenLifetime(d))
	}
	if a.MaxTokenAttempts != nil {
		opts = append(opts, accountsuc.WithMaxTokenAttempts(*a.MaxTokenAttempts))
	}
	return accountsuc.New(
		p, r.Users, r.Tokens, scram.SHA256(), ti,
		lognotify.New(*a.RevealCodes), opts...,
	)
}

// NewCatalogsUseCase instantiates a catalogs use case.
func (c *Config) NewCatalogsUseCase(
	p repo.Pool, r appuc.Repos,
) (*catalogsuc.UseCase, error) {
	return catalogsuc.New(
		p, r.Catalog,
		catalogsuc.WithPagination(c.Usecases.Pagination.model()),
	)
}

// NewStationsUseCase instantiates a fuel stations use case.
func (c *Config) NewStationsUseCase(
	p repo.Pool, r appuc.Repos,
) (*stationsuc.UseCase, error) {
	s := c.Usecases.Search
	return stationsuc.New(
		p, r.Stations, r.Catalog, r.Prices, r.Reviews, r.Users,
		stationsuc.WithPagination(c.Usecases.Pagination.model()),
		stationsuc.WithSearchRadius(*s.DefaultRadius, *s.MaxRadius),
	)
}

// NewPricesUseCase instantiates a fuel prices use case.
func (c *Config) NewPricesUseCase(
	p repo.Pool, r appuc.Repos,
) (*pricesuc.UseCase, error) {
	return pricesuc.New(
		p, r.Stations, r.Prices,
		pricesuc.WithPagination(c.Usecases.Pagination.model()),
	)
}

// NewReviewsUseCase instantiates a reviews use case.
func (c *Config) NewReviewsUseCase(
	p repo.Pool, r appuc.Repos,
) (*reviewsuc.UseCase, error) {
	return reviewsuc.New(
		p, r.Reviews, r.Stations, r.Users,
		reviewsuc.WithPagination(c.Usecases.Pagination.model()),
	)
}

// NewFavoritesUseCase instantiates a favorites use case.
func (c *Config) NewFavoritesUseCase(
	p repo.Pool, r appuc.Repos,
) (*favoritesuc.UseCase, error) {
	return favoritesuc.New(
		p, r.Favorites, r.Stations,
		favoritesuc.WithPagination(c.Usecases.Pagination.model()),
	)
}
