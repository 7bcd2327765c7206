// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authmw provides the gin middlewares which authenticate the
// bearer tokens of requests using the accounts use case and keep the
// authenticated user in the gin context for the resources packages.
package authmw

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/accountsuc"
)

const actorKey = "fuelfinder.actor"

// Middleware authenticates requests. The accounts use case is obtained
// per request, so a reloaded use case is used by the next requests.
type Middleware struct {
	accounts func() *accountsuc.UseCase
}

func New(accounts func() *accountsuc.UseCase) *Middleware {
	return &Middleware{accounts: accounts}
}

// Required rejects requests without a valid bearer token with 401
// and requests of banned users with 403.
func (m *Middleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c, true) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// Optional authenticates the bearer token if it is present. Requests
// without the Authorization header are passed anonymously, but an
// invalid token is still rejected.
func (m *Middleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c, false) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// Admin works like Required and also rejects non-admin users with 403.
func (m *Middleware) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c, true) {
			c.Abort()
			return
		}
		if !Actor(c).IsAdmin() {
			serdser.SerErr(c, cerr.Authorization(
				errors.New("admin role is required"),
			))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *Middleware) authenticate(c *gin.Context, required bool) bool {
	h := c.GetHeader("Authorization")
	if h == "" && !required {
		return true
	}
	token, ok := bearer(h)
	if !ok {
		serdser.SerErr(c, cerr.Authentication(
			errors.New("bearer token is required"),
		))
		return false
	}
	u, err := m.accounts().Authenticate(c, token)
	if err != nil {
		serdser.SerErr(c, err)
		return false
	}
	c.Set(actorKey, u)
	return true
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}

// Actor returns the authenticated user of the c request, or nil if
// the request was passed anonymously.
func Actor(c *gin.Context) *model.User {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}
