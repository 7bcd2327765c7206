// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package accountsrs realizes the accounts resource, allowing users to
// register, login, confirm their e-mail addresses, and manage their
// passwords by delegating to the accounts use case.
package accountsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/usecase/accountsuc"
)

type resource struct {
	accounts func() *accountsuc.UseCase
}

// Register instantiates a resource adapting the accounts use case
// with the relevant REST APIs including:
//  1. POST request to /api/v1/accounts/register
//     in order to create a new account,
//  2. POST request to /api/v1/accounts/login
//     in order to obtain a bearer token,
//  3. POST requests to /api/v1/accounts/confirm-email and
//     /api/v1/accounts/resend-email-confirmation
//     in order to verify the e-mail address,
//  4. POST requests to /api/v1/accounts/forgot-password and
//     /api/v1/accounts/reset-password
//     in order to reset a forgotten password,
//  5. POST request to /api/v1/accounts/change-password
//     in order to change the password of the authenticated user.
func Register(
	r *gin.RouterGroup,
	accounts func() *accountsuc.UseCase,
	auth *authmw.Middleware,
) {
	rs := &resource{accounts: accounts}
	g := r.Group("accounts")
	g.POST("register", rs.Register)
	g.POST("login", rs.Login)
	g.POST("confirm-email", rs.ConfirmEmail)
	g.POST("resend-email-confirmation", rs.ResendEmailConfirmation)
	g.POST("forgot-password", rs.ForgotPassword)
	g.POST("reset-password", rs.ResetPassword)
	g.POST("change-password", auth.Required(), rs.ChangePassword)
}

func (rs *resource) Register(c *gin.Context) {
	req := rs.DserRegisterReq(c)
	if req == nil {
		return
	}
	u, err := rs.accounts().Register(c, *req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serdser.SerUser(u))
}

func (rs *resource) Login(c *gin.Context) {
	req := &loginReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	res, err := rs.accounts().Login(c, req.Username, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerLoginRes(res))
}

func (rs *resource) ConfirmEmail(c *gin.Context) {
	req := &confirmEmailReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	if err := rs.accounts().ConfirmEmail(c, req.Username, req.Code); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ResendEmailConfirmation(c *gin.Context) {
	req := &usernameReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	if err := rs.accounts().ResendEmailConfirmation(c, req.Username); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ForgotPassword(c *gin.Context) {
	req := &emailReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	if err := rs.accounts().ForgotPassword(c, req.Email); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ResetPassword(c *gin.Context) {
	req := rs.DserResetPasswordReq(c)
	if req == nil {
		return
	}
	err := rs.accounts().ResetPassword(c, req.Email, req.Code, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ChangePassword(c *gin.Context) {
	req := rs.DserChangePasswordReq(c)
	if req == nil {
		return
	}
	err := rs.accounts().ChangePassword(
		c, authmw.Actor(c), req.OldPassword, req.NewPassword,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
