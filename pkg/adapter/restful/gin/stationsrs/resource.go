// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stationsrs realizes the fuel stations resource, allowing
// clients to search and fetch stations, and allowing the admins and
// station owners to manage them.
package stationsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/usecase/stationsuc"
)

type resource struct {
	stations func() *stationsuc.UseCase
}

// Register instantiates a resource adapting the stations use case
// with the relevant REST APIs including:
//  1. GET request to /api/v1/fuel-stations
//     in order to search stations around a centre or by filters,
//  2. POST request to /api/v1/fuel-stations
//     in order to create a station by admins,
//  3. GET request to /api/v1/fuel-stations/owned
//     in order to list stations of the authenticated owner,
//  4. GET, PUT, and DELETE requests to /api/v1/fuel-stations/:id
//     in order to fetch, update, and delete a station,
//  5. PUT requests to /api/v1/fuel-stations/:id/fuel-types,
//     /api/v1/fuel-stations/:id/services, and
//     /api/v1/fuel-stations/:id/opening-hours
//     in order to replace the station offerings,
//  6. POST request to /api/v1/fuel-stations/:id/owners and
//     DELETE request to /api/v1/fuel-stations/:id/owners/:username
//     in order to manage the station owners.
//
// The reviews and prices of stations are registered by their own
// resources packages.
func Register(
	r *gin.RouterGroup,
	stations func() *stationsuc.UseCase,
	auth *authmw.Middleware,
) {
	rs := &resource{stations: stations}
	g := r.Group("fuel-stations")
	g.GET("", rs.Search)
	g.POST("", auth.Admin(), rs.Create)
	g.GET("owned", auth.Required(), rs.ListOwned)
	g.GET(":id", rs.Get)
	g.PUT(":id", auth.Required(), rs.Update)
	g.DELETE(":id", auth.Admin(), rs.Delete)
	g.PUT(":id/fuel-types", auth.Required(), rs.SetFuelTypes)
	g.PUT(":id/services", auth.Required(), rs.SetServices)
	g.PUT(":id/opening-hours", auth.Required(), rs.SetOpeningHours)
	g.POST(":id/owners", auth.Admin(), rs.AddOwner)
	g.DELETE(":id/owners/:username", auth.Admin(), rs.RemoveOwner)
}

func (rs *resource) Search(c *gin.Context) {
	q := rs.DserSearchReq(c)
	if q == nil {
		return
	}
	p, err := rs.stations().Search(c, *q)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPage(p, SerSummary))
}

func (rs *resource) Get(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	d, err := rs.stations().Get(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerDetails(d))
}

func (rs *resource) Create(c *gin.Context) {
	in := rs.DserStationReq(c)
	if in == nil {
		return
	}
	s, err := rs.stations().Create(c, authmw.Actor(c), *in)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serdser.SerStation(*s))
}

func (rs *resource) Update(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	in := rs.DserStationReq(c)
	if in == nil {
		return
	}
	s, err := rs.stations().Update(c, authmw.Actor(c), id, *in)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerStation(*s))
}

func (rs *resource) Delete(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	if err := rs.stations().Delete(c, authmw.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ListOwned(c *gin.Context) {
	pr, ok := serdser.BindPage(c)
	if !ok {
		return
	}
	p, err := rs.stations().ListOwned(c, authmw.Actor(c), pr)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPage(p, serdser.SerStation))
}

func (rs *resource) SetFuelTypes(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &idsReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	ents, err := rs.stations().SetFuelTypes(c, authmw.Actor(c), id, req.IDs)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerNamedEntities(ents))
}

func (rs *resource) SetServices(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &idsReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	ents, err := rs.stations().SetServices(c, authmw.Actor(c), id, req.IDs)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerNamedEntities(ents))
}

func (rs *resource) SetOpeningHours(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &openingHoursReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	hours, err := rs.stations().SetOpeningHours(
		c, authmw.Actor(c), id, req.Model(),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerOpeningHours(hours))
}

func (rs *resource) AddOwner(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &ownerReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	if err := rs.stations().AddOwner(c, authmw.Actor(c), id, req.Username); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) RemoveOwner(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	err := rs.stations().RemoveOwner(c, authmw.Actor(c), id, c.Param("username"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
