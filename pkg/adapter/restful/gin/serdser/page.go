// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/fuelfinder/pkg/core/model"
)

// PageQuery holds the pagination query parameters. Zero values are
// replaced by the use cases defaults.
type PageQuery struct {
	PageNumber    int    `form:"pageNumber" binding:"omitempty,min=1,max=1000000"`
	PageSize      int    `form:"pageSize" binding:"omitempty,min=1"`
	SortBy        string `form:"sortBy"`
	SortDirection string `form:"sortDirection" binding:"omitempty,oneof=asc desc"`
}

// PageRequest converts pq to a model.PageRequest.
func (pq PageQuery) PageRequest() model.PageRequest {
	return model.PageRequest{
		PageNumber: pq.PageNumber,
		PageSize:   pq.PageSize,
		SortBy:     pq.SortBy,
		Descending: pq.SortDirection == "desc",
	}
}

// BindPage binds the pagination query parameters of the request.
func BindPage(c *gin.Context) (model.PageRequest, bool) {
	pq := PageQuery{}
	if !Bind(c, &pq, binding.Query) {
		return model.PageRequest{}, false
	}
	return pq.PageRequest(), true
}

// Page is the serialized form of a model.Page.
type Page[T any] struct {
	Data          []T   `json:"data"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	NextPage      *int  `json:"nextPage"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// SerPage converts p items using the f function and returns the
// serializable page.
func SerPage[T, U any](p *model.Page[T], f func(T) U) *Page[U] {
	mp := model.MapPage(p, f)
	return &Page[U]{
		Data:          mp.Data,
		PageNumber:    mp.PageNumber,
		PageSize:      mp.PageSize,
		NextPage:      mp.NextPage,
		TotalPages:    mp.TotalPages,
		TotalElements: mp.TotalElements,
	}
}
