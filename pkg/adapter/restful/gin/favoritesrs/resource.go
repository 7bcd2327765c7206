// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package favoritesrs realizes the favorites resource, allowing users
// to bookmark fuel stations.
package favoritesrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/favoritesuc"
)

type resource struct {
	favorites func() *favoritesuc.UseCase
}

// Register instantiates a resource adapting the favorites use case
// with the relevant REST APIs including:
//  1. GET request to /api/v1/favorites
//     in order to list the authenticated user favorite stations,
//  2. POST and DELETE requests to /api/v1/favorites/:stationId
//     in order to add or remove a favorite station.
func Register(
	r *gin.RouterGroup,
	favorites func() *favoritesuc.UseCase,
	auth *authmw.Middleware,
) {
	rs := &resource{favorites: favorites}
	g := r.Group("favorites", auth.Required())
	g.GET("", rs.List)
	g.POST(":stationId", rs.Add)
	g.DELETE(":stationId", rs.Remove)
}

func (rs *resource) List(c *gin.Context) {
	pr, ok := serdser.BindPage(c)
	if !ok {
		return
	}
	p, err := rs.favorites().List(c, authmw.Actor(c), pr)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPage(p, SerFavorite))
}

func (rs *resource) Add(c *gin.Context) {
	id, ok := serdser.ParseID(c, "stationId")
	if !ok {
		return
	}
	if err := rs.favorites().Add(c, authmw.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (rs *resource) Remove(c *gin.Context) {
	id, ok := serdser.ParseID(c, "stationId")
	if !ok {
		return
	}
	if err := rs.favorites().Remove(c, authmw.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type favorite struct {
	Station   serdser.Station `json:"station"`
	CreatedAt time.Time       `json:"createdAt"`
}

func SerFavorite(f model.Favorite) favorite {
	return favorite{
		Station:   serdser.SerStation(f.Station),
		CreatedAt: f.CreatedAt,
	}
}
