// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package catalogrs realizes the catalog resources, namely the fuel
// types, station chains, and station services. All of them are named
// entities, so one resource type serves them all.
package catalogrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/usecase/catalogsuc"
)

type resource struct {
	kind     model.CatalogKind
	catalogs func() *catalogsuc.UseCase
}

// Register instantiates one resource per catalog kind. Each kind, such
// as fuel-types, gets the following REST APIs:
//  1. GET request to /api/v1/fuel-types
//     in order to list the catalog with an optional name filter,
//  2. POST request to /api/v1/fuel-types
//     in order to create a new entity by admins,
//  3. GET, PUT, and DELETE requests to /api/v1/fuel-types/:id
//     in order to fetch, rename, and delete an entity.
func Register(
	r *gin.RouterGroup,
	catalogs func() *catalogsuc.UseCase,
	auth *authmw.Middleware,
) {
	for _, k := range model.CatalogKinds {
		rs := &resource{kind: k, catalogs: catalogs}
		g := r.Group(string(k))
		g.GET("", rs.List)
		g.POST("", auth.Admin(), rs.Create)
		g.GET(":id", rs.Get)
		g.PUT(":id", auth.Admin(), rs.Update)
		g.DELETE(":id", auth.Admin(), rs.Delete)
	}
}

type listReq struct {
	Name string `form:"name" binding:"max=128"`
}

type nameReq struct {
	Name string `json:"name" form:"name" binding:"required"`
}

func (rs *resource) List(c *gin.Context) {
	req := &listReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	pr, ok := serdser.BindPage(c)
	if !ok {
		return
	}
	p, err := rs.catalogs().List(c, rs.kind, req.Name, pr)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerPage(p, serdser.SerNamedEntity))
}

func (rs *resource) Get(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	ent, err := rs.catalogs().Get(c, rs.kind, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerNamedEntity(*ent))
}

func (rs *resource) Create(c *gin.Context) {
	req := &nameReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	ent, err := rs.catalogs().Create(c, authmw.Actor(c), rs.kind, req.Name)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serdser.SerNamedEntity(*ent))
}

func (rs *resource) Update(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	req := &nameReq{}
	if !serdser.BindBody(c, req) {
		return
	}
	ent, err := rs.catalogs().Update(c, authmw.Actor(c), rs.kind, id, req.Name)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serdser.SerNamedEntity(*ent))
}

func (rs *resource) Delete(c *gin.Context) {
	id, ok := serdser.ParseID(c, "id")
	if !ok {
		return
	}
	if err := rs.catalogs().Delete(c, authmw.Actor(c), rs.kind, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
