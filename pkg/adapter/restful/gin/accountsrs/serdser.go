// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package accountsrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/accountsuc"
)

type registerReq struct {
	Username       string  `json:"username" form:"username" binding:"required"`
	Email          string  `json:"email" form:"email" binding:"required,email"`
	Password       string  `json:"password" form:"password" binding:"required"`
	PasswordRepeat *string `json:"passwordRepeat" form:"passwordRepeat"`
}

type loginReq struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type confirmEmailReq struct {
	Username string `json:"username" form:"username" binding:"required"`
	Code     string `json:"code" form:"code" binding:"required,numeric,len=6"`
}

type usernameReq struct {
	Username string `json:"username" form:"username" binding:"required"`
}

type emailReq struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type resetPasswordReq struct {
	Email          string  `json:"email" form:"email" binding:"required,email"`
	Code           string  `json:"code" form:"code" binding:"required,numeric,len=6"`
	Password       string  `json:"password" form:"password" binding:"required"`
	PasswordRepeat *string `json:"passwordRepeat" form:"passwordRepeat"`
}

type changePasswordReq struct {
	OldPassword       string  `json:"oldPassword" form:"oldPassword" binding:"required"`
	NewPassword       string  `json:"newPassword" form:"newPassword" binding:"required"`
	NewPasswordRepeat *string `json:"newPasswordRepeat" form:"newPasswordRepeat"`
}

// checkRepeat reports a mismatching password repetition, if the client
// has sent one. Passwords themselves are validated by the use case.
func checkRepeat(c *gin.Context, field, p string, repeat *string) bool {
	if repeat == nil {
		return true
	}
	if model.ValidatePasswordRepeat(p, *repeat) != model.PasswordRepeatNoMatch {
		return true
	}
	var errs map[string][]string
	serdser.AddErr(&errs, field, model.PasswordRepeatNoMatch.String())
	c.JSON(http.StatusBadRequest, errs)
	return false
}

func (rs *resource) DserRegisterReq(c *gin.Context) *accountsuc.RegisterInput {
	req := &registerReq{}
	if !serdser.BindBody(c, req) {
		return nil
	}
	if !checkRepeat(c, "passwordRepeat", req.Password, req.PasswordRepeat) {
		return nil
	}
	return &accountsuc.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

func (rs *resource) DserResetPasswordReq(c *gin.Context) *resetPasswordReq {
	req := &resetPasswordReq{}
	if !serdser.BindBody(c, req) {
		return nil
	}
	if !checkRepeat(c, "passwordRepeat", req.Password, req.PasswordRepeat) {
		return nil
	}
	return req
}

func (rs *resource) DserChangePasswordReq(c *gin.Context) *changePasswordReq {
	req := &changePasswordReq{}
	if !serdser.BindBody(c, req) {
		return nil
	}
	if !checkRepeat(c, "newPasswordRepeat", req.NewPassword, req.NewPasswordRepeat) {
		return nil
	}
	return req
}

type loginRes struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      serdser.User `json:"user"`
}

func SerLoginRes(res *accountsuc.LoginResult) loginRes {
	return loginRes{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      serdser.SerUser(res.User),
	}
}
