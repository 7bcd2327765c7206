// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package janitor runs the periodic clean up jobs, such as purging of
// the expired one-time codes, based on a cron schedule. It relies on
// the github.com/robfig/cron/v3 module for parsing the schedules and
// running the jobs.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/robfig/cron/v3"
)

// PurgeFunc removes the expired rows and returns their count.
type PurgeFunc func(ctx context.Context) (int64, error)

// Janitor runs PurgeFunc jobs on their cron schedules. Runs of a job
// are skipped while its previous run is still in progress.
type Janitor struct {
	c       *cron.Cron
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a Janitor which calls purge on the schedule cron
// expression, e.g., "@every 15m" or "0 3 * * *". Each run is given at
// most timeout.
func New(schedule string, timeout time.Duration, purge PurgeFunc) (*Janitor, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout (%v) is not positive", timeout)
	}
	l := cronLogger{}
	j := &Janitor{
		c: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		timeout: timeout,
	}
	j.ctx, j.cancel = context.WithCancel(context.Background())
	if err := j.AddJob(schedule, "expired tokens", purge); err != nil {
		return nil, err
	}
	return j, nil
}

// AddJob schedules one more purge function. The name is used in logs.
// Jobs should be added before calling Start.
func (j *Janitor) AddJob(schedule, name string, purge PurgeFunc) error {
	_, err := j.c.AddFunc(schedule, func() { j.run(name, purge) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (j *Janitor) Start() {
	j.c.Start()
}

// Stop stops the scheduler, cancels the running job (if any), and
// waits until it returns or ctx is done.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.c.Stop()
	j.cancel()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (j *Janitor) run(name string, purge PurgeFunc) {
	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()
	n, err := purge(ctx)
	if err != nil {
		log.Error(
			ctx, "purge failed",
			log.String("job", name), log.Err("err", err),
		)
		return
	}
	if n > 0 {
		log.Info(
			ctx, "purged expired entries",
			log.String("job", name), slog.Int64("count", n),
		)
	}
}

// cronLogger passes the cron library logs to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(msg, append(keysAndValues, "err", err)...)
}
