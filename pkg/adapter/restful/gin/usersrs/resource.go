// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrs realizes the users resource, exposing the public
// profiles and reviews of users and the administrative operations on
// their accounts.
package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/accountsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/reviewsuc"
)

type resource struct {
	accounts func() *accountsuc.UseCase
	reviews  func() *reviewsuc.UseCase
}

// Register instantiates a resource with the relevant REST APIs
// including:
//  1. GET request to /api/v1/users/me
//     in order to fetch the authenticated user details,
//  2. GET request to /api/v1/users/:username
//     in order to fetch a user profile,
//  3. GET request to /api/v1/users/:username/reviews
//     in order to list reviews of a user,
//  4. PUT requests to /api/v1/users/:username/status and
//     /api/v1/users/:username/role
//     in order to ban, unban, or change the role of users by admins,
//  5. DELETE request to /api/v1/users/:username
//     in order to delete an account by its owner or an admin.
func Register(
	r *gin.RouterGroup,
	accounts func() *accountsuc.UseCase,
	reviews func() *reviewsuc.UseCase,
	auth *authmw.Middleware,
) {
	rs := &resource{accounts: accounts, reviews: reviews}
	g := r.Group("users")
	g.GET("me", auth.Required(), rs.Me)
	g.GET(":username", auth.Optional(), rs.GetUser)
	g.GET(":username/reviews", rs.ListReviews)
	g.PUT(":username/status", auth.Admin(), rs.SetStatus)
	g.PUT(":username/role", auth.Admin(), rs.SetRole)
	g.DELETE(":username", auth.Required(), rs.DeleteUser)
}

func (rs *resource) Me(c *gin.Context) {
	c.JSON(http.StatusOK, serdser.SerUser(authmw.Actor(c)))
}

func (rs *resource) GetUser(c *gin.Context) {
	u, err := rs.accounts().GetUser(c, authmw.Actor(c), c.Param("username"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerUser(u))
}

func (rs *resource) ListReviews(c *gin.Context) {
	pr, ok := serdser.BindPage(c)
	if !ok {
		return
	}
	p, err := rs.reviews().ListForUser(c, c.Param("username"), pr)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPage(p, serdser.SerReview))
}

func (rs *resource) SetStatus(c *gin.Context) {
	req := &statusReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	s, err := model.ParseAccountStatus(req.Status)
	if err != nil {
		serdser.SerErr(c, cerr.Invalid("status", err))
		return
	}
	u, err := rs.accounts().SetStatus(c, authmw.Actor(c), c.Param("username"), s)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerUser(u))
}

func (rs *resource) SetRole(c *gin.Context) {
	req := &roleReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		serdser.SerErr(c, cerr.Invalid("role", err))
		return
	}
	u, err := rs.accounts().SetRole(c, authmw.Actor(c), c.Param("username"), role)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerUser(u))
}

func (rs *resource) DeleteUser(c *gin.Context) {
	err := rs.accounts().DeleteUser(c, authmw.Actor(c), c.Param("username"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusReq struct {
	Status string `json:"status" form:"status" binding:"required"`
}

type roleReq struct {
	Role string `json:"role" form:"role" binding:"required"`
}
