// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package stationsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/core/model"
)

type searchReq struct {
	Lat        *float64 `form:"lat"`
	Lon        *float64 `form:"lon"`
	Distance   float64  `form:"distance" binding:"omitempty,gt=0"`
	Name       string   `form:"name" binding:"max=100"`
	ChainID    *int64   `form:"chainId" binding:"omitempty,min=1"`
	FuelTypeID *int64   `form:"fuelTypeId" binding:"omitempty,min=1"`
	ServiceID  *int64   `form:"serviceId" binding:"omitempty,min=1"`
}

func (rs *resource) DserSearchReq(c *gin.Context) *model.StationQuery {
	req := &searchReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return nil
	}
	pr, ok := serdser.BindPage(c)
	if !ok {
		return nil
	}
	var errs map[string][]string
	serdser.Assert(
		&errs, (req.Lat == nil) == (req.Lon == nil), "lat/lon",
		"lat and lon must be given together",
	)
	serdser.Assert(
		&errs, req.Lat != nil || req.Distance == 0, "distance",
		"distance requires lat and lon",
	)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	q := &model.StationQuery{
		Radius:     req.Distance,
		Name:       req.Name,
		ChainID:    req.ChainID,
		FuelTypeID: req.FuelTypeID,
		ServiceID:  req.ServiceID,
		Page:       pr,
	}
	if req.Lat != nil {
		q.Center = &model.Coordinates{Latitude: *req.Lat, Longitude: *req.Lon}
	}
	return q
}

type stationReq struct {
	Name        string              `json:"name" binding:"required"`
	ChainID     *int64              `json:"chainId" binding:"omitempty,min=1"`
	Address     serdser.Address     `json:"address"`
	Coordinates serdser.Coordinates `json:"coordinates"`
}

func (rs *resource) DserStationReq(c *gin.Context) *model.StationInput {
	req := &stationReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	return &model.StationInput{
		Name:    req.Name,
		ChainID: req.ChainID,
		Address: req.Address.Model(),
		Coordinates: model.Coordinates{
			Latitude:  req.Coordinates.Latitude,
			Longitude: req.Coordinates.Longitude,
		},
	}
}

type idsReq struct {
	IDs []int64 `json:"ids" binding:"dive,min=1"`
}

type openingHours struct {
	DayOfWeek int `json:"dayOfWeek" binding:"min=0,max=6"`
	Opening   int `json:"opening" binding:"min=0,max=2359"`
	Closing   int `json:"closing" binding:"min=0,max=2359"`
}

type openingHoursReq struct {
	OpeningHours []openingHours `json:"openingHours" binding:"max=7,dive"`
}

func (req *openingHoursReq) Model() []model.OpeningHours {
	hours := make([]model.OpeningHours, len(req.OpeningHours))
	for i, oh := range req.OpeningHours {
		hours[i] = model.OpeningHours{
			DayOfWeek: oh.DayOfWeek,
			Opening:   oh.Opening,
			Closing:   oh.Closing,
		}
	}
	return hours
}

func SerOpeningHours(hours []model.OpeningHours) []openingHours {
	dtos := make([]openingHours, len(hours))
	for i, oh := range hours {
		dtos[i] = openingHours{
			DayOfWeek: oh.DayOfWeek,
			Opening:   oh.Opening,
			Closing:   oh.Closing,
		}
	}
	return dtos
}

type ownerReq struct {
	Username string `json:"username" form:"username" binding:"required"`
}

type summary struct {
	serdser.Station
	Distance *float64       `json:"distance"`
	Price    *serdser.Price `json:"price"`
}

func SerSummary(s model.StationSummary) summary {
	dto := summary{
		Station:  serdser.SerStation(s.FuelStation),
		Distance: s.Distance,
	}
	if s.Price != nil {
		p := serdser.SerPrice(*s.Price)
		dto.Price = &p
	}
	return dto
}

type details struct {
	serdser.Station
	FuelTypes    []serdser.NamedEntity `json:"fuelTypes"`
	Services     []serdser.NamedEntity `json:"services"`
	OpeningHours []openingHours        `json:"openingHours"`
	Prices       []serdser.Price       `json:"prices"`
	Rating       serdser.Rating        `json:"rating"`
}

func SerDetails(d *model.StationDetails) details {
	return details{
		Station:      serdser.SerStation(d.FuelStation),
		FuelTypes:    serdser.SerNamedEntities(d.FuelTypes),
		Services:     serdser.SerNamedEntities(d.Services),
		OpeningHours: SerOpeningHours(d.OpeningHours),
		Prices:       serdser.SerPrices(d.Prices),
		Rating:       serdser.SerRating(d.Rating),
	}
}
