// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pricesrs realizes the fuel prices resource, allowing users
// to report the prices of fuel stations and the admins to moderate
// the pending reports.
package pricesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/pricesuc"
)

type resource struct {
	prices func() *pricesuc.UseCase
}

// Register instantiates a resource adapting the prices use case
// with the relevant REST APIs including:
//  1. GET request to /api/v1/fuel-stations/:id/fuel-prices
//     in order to fetch the current prices of a station,
//  2. POST request to /api/v1/fuel-stations/:id/fuel-prices
//     in order to report new prices,
//  3. GET request to /api/v1/fuel-stations/:id/fuel-prices/history
//     in order to list the accepted prices of one fuel type,
//  4. GET request to /api/v1/fuel-prices/pending
//     in order to list the reports which need moderation,
//  5. PUT request to /api/v1/fuel-prices/:id/status
//     in order to accept or reject a pending report.
func Register(
	r *gin.RouterGroup,
	prices func() *pricesuc.UseCase,
	auth *authmw.Middleware,
) {
	rs := &resource{prices: prices}
	r.GET("fuel-stations/:id/fuel-prices", rs.Current)
	r.POST("fuel-stations/:id/fuel-prices", auth.Required(), rs.Submit)
	r.GET("fuel-stations/:id/fuel-prices/history", rs.History)
	r.GET("fuel-prices/pending", auth.Admin(), rs.Pending)
	r.PUT("fuel-prices/:id/status", auth.Admin(), rs.Moderate)
}

func (rs *resource) Current(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	cur, err := rs.prices().Current(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPrices(cur))
}

func (rs *resource) Submit(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &submitReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	created, err := rs.prices().Submit(c, authmw.Actor(c), id, req.Model())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serdser.SerPrices(created))
}

func (rs *resource) History(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &historyReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	pr, ok := serdser.BindPage(c)
	if !ok {
		return
	}
	p, err := rs.prices().History(c, id, req.FuelTypeID, pr)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPage(p, serdser.SerPrice))
}

func (rs *resource) Pending(c *gin.Context) {
	pr, ok := serdser.BindPage(c)
	if !ok {
		return
	}
	p, err := rs.prices().Pending(c, authmw.Actor(c), pr)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPage(p, serdser.SerPrice))
}

func (rs *resource) Moderate(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &statusReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	s, err := model.ParsePriceStatus(req.Status)
	if err != nil {
		serdser.SerErr(c, cerr.Invalid("status", err))
		return
	}
	p, err := rs.prices().Moderate(c, authmw.Actor(c), id, s)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPrice(*p))
}

type priceReq struct {
	FuelTypeID int64   `json:"fuelTypeId" binding:"required,min=1"`
	Price      float64 `json:"price" binding:"required"`
	Available  *bool   `json:"available"`
}

type submitReq struct {
	Prices []priceReq `json:"prices" binding:"required,min=1,dive"`
}

// Model converts req to the price inputs. Fuels are considered to be
// available unless stated otherwise.
func (req *submitReq) Model() []model.PriceInput {
	in := make([]model.PriceInput, len(req.Prices))
	for i, p := range req.Prices {
		in[i] = model.PriceInput{
			FuelTypeID: p.FuelTypeID,
			Price:      p.Price,
			Available:  p.Available == nil || *p.Available,
		}
	}
	return in
}

type historyReq struct {
	FuelTypeID int64 `form:"fuelTypeId" binding:"required,min=1"`
}

type statusReq struct {
	Status string `json:"status" form:"status" binding:"required"`
}
