// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package janitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidSchedules(t *testing.T) {
	noop := func(context.Context) (int64, error) { return 0, nil }
	_, err := New("every now and then", time.Second, noop)
	assert.Error(t, err)
	_, err = New("@every 1m", 0, noop)
	assert.Error(t, err)
}

func TestJanitorRunsOnSchedule(t *testing.T) {
	var calls atomic.Int32
	j, err := New("@every 1s", time.Second, func(ctx context.Context) (int64, error) {
		calls.Add(1)
		return 2, nil
	})
	require.NoError(t, err)
	j.Start()
	assert.Eventually(t, func() bool {
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	j.Stop(ctx)
}

func TestStopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	var cancelled atomic.Bool
	j, err := New("@every 1s", time.Minute, func(ctx context.Context) (int64, error) {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return 0, ctx.Err()
	})
	require.NoError(t, err)
	j.Start()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not start")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	j.Stop(ctx)
	assert.True(t, cancelled.Load())
	assert.NoError(t, ctx.Err())
}

func TestRunLogsFailures(t *testing.T) {
	failing := func(context.Context) (int64, error) {
		return 0, errors.New("db is down")
	}
	j, err := New("@every 1h", time.Second, failing)
	require.NoError(t, err)
	assert.NotPanics(t, func() { j.run("failing", failing) })
}

func TestAddJob(t *testing.T) {
	noop := func(context.Context) (int64, error) { return 0, nil }
	j, err := New("@every 1h", time.Second, noop)
	require.NoError(t, err)
	assert.Error(t, j.AddJob("not a schedule", "broken", noop))

	var calls atomic.Int32
	require.NoError(t, j.AddJob("@every 1s", "counter", func(context.Context) (int64, error) {
		calls.Add(1)
		return 1, nil
	}))
	j.Start()
	assert.Eventually(t, func() bool {
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	j.Stop(ctx)
}
