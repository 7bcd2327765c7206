// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterPerClient(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"), "burst is exhausted")
	assert.True(t, rl.allow("10.0.0.2"), "clients have their own buckets")

	now = now.Add(time.Second)
	assert.True(t, rl.allow("10.0.0.1"), "one token per second")
	assert.False(t, rl.allow("10.0.0.1"))

	assert.Zero(t, rl.Cleanup())
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, rl.Cleanup())
	assert.Empty(t, rl.limiters)
}

func TestRateLimiterMiddleware(t *testing.T) {
	SetMode(gin.TestMode)
	rl := NewRateLimiter(0.001, 1, time.Minute)
	e := New(rl.Middleware())
	e.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w
	}
	w := send("192.0.2.1:1234")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	w = send("192.0.2.1:4321")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too many requests")
	assert.Equal(t, http.StatusOK, send("192.0.2.2:1234").Code)
}

func TestRateLimiterKeysOnPeerAddress(t *testing.T) {
	SetMode(gin.TestMode)
	send := func(e *Engine, xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w.Code
	}
	pong := func(c *gin.Context) { c.String(http.StatusOK, "pong") }

	e := New(NewRateLimiter(0.001, 1, time.Minute).Middleware())
	e.GET("/ping", pong)
	codes := make([]int, 0, 4)
	for _, xff := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3", "203.0.113.4"} {
		codes = append(codes, send(e, xff))
	}
	assert.Equal(t, []int{
		http.StatusOK, http.StatusTooManyRequests,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, codes)

	e = New(NewRateLimiter(0.001, 1, time.Minute).Middleware())
	require.NoError(t, e.SetTrustedProxies([]string{"192.0.2.0/24"}))
	e.GET("/ping", pong)
	assert.Equal(t, http.StatusOK, send(e, "203.0.113.1"))
	assert.Equal(t, http.StatusOK, send(e, "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send(e, "203.0.113.1"))
}

func TestMetrics(t *testing.T) {
	SetMode(gin.TestMode)
	m := NewMetrics()
	e := New()
	m.Register(e, "/metrics")
	e.GET("/users/:username", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/users/sara", "/users/omid", "/missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body,
		`fuelweb_http_requests_total{method="GET",route="/users/:username",status="204"} 2`)
	assert.Contains(t, body,
		`fuelweb_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, "fuelweb_http_request_duration_seconds_bucket")
	assert.False(t, strings.Contains(body, "/users/sara"), "paths must not be labels")
}
