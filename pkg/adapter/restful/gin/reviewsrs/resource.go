// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reviewsrs realizes the reviews resource, allowing users to
// review fuel stations and manage their own reviews.
package reviewsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/reviewsuc"
)

type resource struct {
	reviews func() *reviewsuc.UseCase
}

// Register instantiates a resource adapting the reviews use case
// with the relevant REST APIs including:
//  1. GET request to /api/v1/fuel-stations/:id/reviews
//     in order to list reviews of a station,
//  2. GET request to /api/v1/fuel-stations/:id/rating
//     in order to fetch the average rate of a station,
//  3. POST request to /api/v1/fuel-stations/:id/reviews
//     in order to review a station,
//  4. PUT and DELETE requests to /api/v1/reviews/:id
//     in order to update or delete a review.
func Register(
	r *gin.RouterGroup,
	reviews func() *reviewsuc.UseCase,
	auth *authmw.Middleware,
) {
	rs := &resource{reviews: reviews}
	r.GET("fuel-stations/:id/reviews", rs.ListForStation)
	r.GET("fuel-stations/:id/rating", rs.Summary)
	r.POST("fuel-stations/:id/reviews", auth.Required(), rs.Create)
	r.PUT("reviews/:id", auth.Required(), rs.Update)
	r.DELETE("reviews/:id", auth.Required(), rs.Delete)
}

func (rs *resource) ListForStation(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	pr, ok := serdser.BindPage(c)
	if !ok {
		return
	}
	p, err := rs.reviews().ListForStation(c, id, pr)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPage(p, serdser.SerReview))
}

func (rs *resource) Summary(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	s, err := rs.reviews().Summary(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerRating(s))
}

func (rs *resource) Create(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &reviewReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	r, err := rs.reviews().Create(c, authmw.Actor(c), id, req.Model())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serdser.SerReview(*r))
}

func (rs *resource) Update(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &reviewReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	r, err := rs.reviews().Update(c, authmw.Actor(c), id, req.Model())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerReview(*r))
}

func (rs *resource) Delete(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	if err := rs.reviews().Delete(c, authmw.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reviewReq struct {
	Content string `json:"content" form:"content" binding:"max=1000"`
	Rate    int    `json:"rate" form:"rate" binding:"required,min=1,max=5"`
}

func (req *reviewReq) Model() model.ReviewInput {
	return model.ReviewInput{Content: req.Content, Rate: req.Rate}
}
