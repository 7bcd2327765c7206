// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser

import (
	"time"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

// The DTO types in this file are shared by the resources packages
// because a station, for example, is reported by the stations,
// favorites, and owned stations APIs.

type User struct {
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	EmailConfirmed *bool     `json:"emailConfirmed,omitempty"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SerUser serializes u. The e-mail fields are only reported when the
// use case has kept them, i.e., for the user themself or an admin.
func SerUser(u *model.User) User {
	dto := User{
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
	if u.Email != "" {
		confirmed := u.EmailConfirmed
		dto.EmailConfirmed = &confirmed
	}
	return dto
}

type NamedEntity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func SerNamedEntity(e model.NamedEntity) NamedEntity {
	return NamedEntity{ID: e.ID, Name: e.Name}
}

func SerNamedEntities(es []model.NamedEntity) []NamedEntity {
	dtos := make([]NamedEntity, len(es))
	for i, e := range es {
		dtos[i] = SerNamedEntity(e)
	}
	return dtos
}

type Address struct {
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
}

func (a Address) Model() model.Address {
	return model.Address{
		Street:       a.Street,
		StreetNumber: a.StreetNumber,
		City:         a.City,
		PostalCode:   a.PostalCode,
	}
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Station struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Chain       *NamedEntity `json:"chain"`
	Address     Address      `json:"address"`
	Coordinates Coordinates  `json:"coordinates"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func SerStation(s model.FuelStation) Station {
	dto := Station{
		ID:   s.ID,
		Name: s.Name,
		Address: Address{
			Street:       s.Address.Street,
			StreetNumber: s.Address.StreetNumber,
			City:         s.Address.City,
			PostalCode:   s.Address.PostalCode,
		},
		Coordinates: Coordinates{
			Latitude:  s.Coordinates.Latitude,
			Longitude: s.Coordinates.Longitude,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Chain != nil {
		c := SerNamedEntity(*s.Chain)
		dto.Chain = &c
	}
	return dto
}

type Price struct {
	ID        int64       `json:"id"`
	StationID int64       `json:"stationId"`
	FuelType  NamedEntity `json:"fuelType"`
	Price     float64     `json:"price"`
	Available bool        `json:"available"`
	Status    string      `json:"status"`
	Priority  uint8       `json:"priority"`
	CreatedAt time.Time   `json:"createdAt"`
}

func SerPrice(p model.FuelPrice) Price {
	return Price{
		ID:        p.ID,
		StationID: p.StationID,
		FuelType:  SerNamedEntity(p.FuelType),
		Price:     p.Price,
		Available: p.Available,
		Status:    string(p.Status),
		Priority:  p.Priority,
		CreatedAt: p.CreatedAt,
	}
}

func SerPrices(ps []model.FuelPrice) []Price {
	dtos := make([]Price, len(ps))
	for i, p := range ps {
		dtos[i] = SerPrice(p)
	}
	return dtos
}

type Review struct {
	ID        int64     `json:"id"`
	StationID int64     `json:"stationId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func SerReview(r model.Review) Review {
	return Review{
		ID:        r.ID,
		StationID: r.StationID,
		Username:  r.Username,
		Content:   r.Content,
		Rate:      r.Rate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func SerRating(r model.RatingSummary) Rating {
	return Rating{Average: r.Average, Count: r.Count}
}
