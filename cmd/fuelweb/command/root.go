// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the fuelweb
// server. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database management actions.
//
//	./fuelweb [-c /path/of/config.yaml]           # start web server
//	./fuelweb db init-dev --admin-username admin --admin-email a@b.c
//	./fuelweb db init-prod --admin-username admin --admin-email a@b.c
//	./fuelweb db migrate up
//	./fuelweb db migrate down [steps]
//	./fuelweb db migrate version
//	./fuelweb db migrate force <version>
//
// A .env file in the working directory and next to the config file
// may provide the FUEL_ environment variables.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/momeni/fuelfinder/pkg/adapter/config"
	"github.com/momeni/fuelfinder/pkg/adapter/config/cfg1"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/routes"
	"github.com/momeni/fuelfinder/pkg/adapter/scheduler/janitor"
	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/usecase/appuc"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var cfgPath string

// dotenv holds the .env files which are loaded by loadConfig, so they
// can be reloaded on SIGHUP.
var dotenv *config.EnvFiles

var rootCmd = &cobra.Command{
	Use:   "fuelweb",
	Short: "A fuel station locator and price comparison web server",
	Long: `A fuel station locator and price comparison web server
which lets users search fuel stations around a location, compare the
current fuel prices, report new prices, review stations, and keep their
favorite stations. Station owners and admins may manage the stations,
their offerings, and the catalogs of fuel types, chains, and services.

The server reloads the .env files and the use case settings of its
configuration file upon receiving the SIGHUP signal. Changes in the
database, gin, and logging settings require a restart.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

// loadConfig loads the .env files and the configuration file, and
// installs the configured logger as the default slog logger.
func loadConfig() (*cfg1.Config, *slog.Logger, error) {
	dotenv = config.NewEnvFiles(".env", filepath.Join(filepath.Dir(cfgPath), ".env"))
	if err := dotenv.Load(); err != nil {
		return nil, nil, fmt.Errorf("loading .env files: %w", err)
	}
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	l := c.Log.NewLogger(os.Stderr)
	slog.SetDefault(l)
	log.Info(
		context.Background(), "loaded config",
		log.String("path", cfgPath), log.String("version", c.Version().String()),
	)
	return c, l, nil
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, l, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	app, err := appuc.New(p, routes.NewRepos(), c)
	if err != nil {
		return fmt.Errorf("creating application use case: %w", err)
	}
	rl := c.RateLimit.NewRateLimiter()
	e, err := c.Gin.NewEngine(l, rl)
	if err != nil {
		return fmt.Errorf("creating gin engine: %w", err)
	}
	if err = routes.Register(e, app); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	j, err := newJanitor(c, app, rl)
	if err != nil {
		return fmt.Errorf("creating janitor: %w", err)
	}
	j.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		j.Stop(ctx)
	}()
	go reloadOnHangup(ctx, app)

	srv := &http.Server{
		Addr:              c.Gin.Address,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", log.String("address", c.Gin.Address))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err = <-errCh:
		return fmt.Errorf("running http server: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running http server: %w", err)
	}
	return nil
}

// newJanitor schedules purging of the expired one-time codes and,
// if rate limiting is enabled, forgetting of the idle clients.
func newJanitor(
	c *cfg1.Config, app *appuc.UseCase, rl *gin.RateLimiter,
) (*janitor.Janitor, error) {
	j, err := janitor.New(
		c.Janitor.Schedule, time.Duration(*c.Janitor.Timeout),
		func(ctx context.Context) (int64, error) {
			return app.AccountsUseCase().PurgeExpiredTokens(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	if rl == nil {
		return j, nil
	}
	err = j.AddJob(
		c.Janitor.Schedule, "idle clients",
		func(context.Context) (int64, error) {
			return int64(rl.Cleanup()), nil
		},
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// reloadOnHangup reloads the .env files and the configuration file and
// rebuilds the use cases whenever SIGHUP is received, until ctx is done.
// A failed reload keeps the current use cases.
func reloadOnHangup(ctx context.Context, app *appuc.UseCase) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}
		err := dotenv.Load()
		var c *cfg1.Config
		if err == nil {
			c, err = config.Load(cfgPath)
		}
		if err == nil {
			err = app.Reload(c)
		}
		if err != nil {
			log.Error(ctx, "reloading config failed", log.Err("err", err))
			continue
		}
		log.Info(ctx, "reloaded config", log.String("path", cfgPath))
	}
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the FUEL_CONFIG_FILE environment variable, or its default
// value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("FUEL_CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
