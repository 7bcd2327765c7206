// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine and provides the middlewares
// which are installed on all routes, so the configuration layer may
// create an engine without knowing about the resources packages.
package gin

import (
	"log/slog"

	ginslogger "github.com/FabienMht/ginslog/logger"
	ginslogrecovery "github.com/FabienMht/ginslog/recovery"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New creates a gin-gonic engine without the default middlewares and
// installs the given middlewares in their order. No proxy is trusted,
// so the client IP is the peer address until SetTrustedProxies is
// called with the reverse proxies addresses.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	_ = e.SetTrustedProxies(nil) // an empty list can not fail
	e.Use(middlewares...)
	return e
}

// SetMode sets the gin-gonic mode which is one of debug, release, and
// test.
func SetMode(mode string) {
	gin.SetMode(mode)
}

// Logger returns an access log middleware which logs each request
// using the l structured logger.
func Logger(l *slog.Logger) HandlerFunc {
	return ginslogger.New(l)
}

// Recovery returns a middleware which recovers from panics, logs them
// using the l structured logger, and responds with 500.
func Recovery(l *slog.Logger) HandlerFunc {
	return ginslogrecovery.New(l)
}
