// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/core/log"
	"golang.org/x/time/rate"
)

// RateLimiter limits the requests of each client IP address using a
// token bucket per address.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiter
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type limiter struct {
	*rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter which allows rps requests per
// second for each client, with bursts of at most burst requests.
// Clients which stay idle for the idle duration are forgotten.
func NewRateLimiter(rps float64, burst int, idle time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		idle:     idle,
		now:      time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	l, ok := rl.limiters[key]
	if !ok {
		l = &limiter{Limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = l
	}
	l.lastSeen = now
	return l.AllowN(now, 1)
}

// Cleanup forgets the clients which were idle for longer than the
// configured idle duration. It returns the number of removed entries.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	deadline := rl.now().Add(-rl.idle)
	for k, l := range rl.limiters {
		if l.lastSeen.Before(deadline) {
			delete(rl.limiters, k)
			n++
		}
	}
	return n
}

// Middleware returns a middleware which aborts the requests of the
// clients which exceeded their rate with 429.
func (rl *RateLimiter) Middleware() HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if rl.allow(key) {
			c.Next()
			return
		}
		log.Warn(
			c, "rate limit exceeded",
			log.String("client", key),
			log.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"detail": "too many requests",
		})
	}
}
