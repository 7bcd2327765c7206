// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Address is the postal address of a fuel station.
type Address struct {
	Street       string
	StreetNumber string
	City         string
	PostalCode   string
}

// Normalize trims the a fields and validates their lengths.
func (a *Address) Normalize() error {
	a.Street = strings.TrimSpace(a.Street)
	a.StreetNumber = strings.TrimSpace(a.StreetNumber)
	a.City = strings.TrimSpace(a.City)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	var errs []error
	errs = append(errs, checkLen("street", a.Street, 0, 100))
	errs = append(errs, checkLen("streetNumber", a.StreetNumber, 1, 10))
	errs = append(errs, checkLen("city", a.City, 1, 50))
	errs = append(errs, checkLen("postalCode", a.PostalCode, 1, 5))
	return errors.Join(errs...)
}

// FuelStation is a station with its owned address and coordinates.
// Chain is nil for independent stations.
type FuelStation struct {
	ID          int64
	Name        string
	Chain       *NamedEntity
	Address     Address
	Coordinates Coordinates
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StationInput carries the writable fields of a FuelStation.
type StationInput struct {
	Name        string
	ChainID     *int64
	Address     Address
	Coordinates Coordinates
}

// Normalize trims and validates the si fields.
func (si *StationInput) Normalize() error {
	si.Name = strings.TrimSpace(si.Name)
	return errors.Join(
		checkLen("name", si.Name, 1, 100),
		si.Address.Normalize(),
		si.Coordinates.Validate(),
	)
}

// StationDetails is a FuelStation with all of its related rows.
type StationDetails struct {
	FuelStation
	FuelTypes    []NamedEntity
	Services     []NamedEntity
	OpeningHours []OpeningHours
	Prices       []FuelPrice
	Rating       RatingSummary
}

// StationSummary is a FuelStation as listed by a search. Distance
// (in kilometres) is only known when the search had a centre and Price
// is only known when the search was limited to one fuel type.
type StationSummary struct {
	FuelStation
	Distance *float64
	Price    *FuelPrice
}

// Search sort keys.
const (
	SortByDistance = "distance"
	SortByPrice    = "price"
	SortByName     = "name"
	SortByID       = "id"
)

// StationQuery is a fuel station search request.
// Center and Radius (in kilometres) limit the search area, while other
// non-nil fields filter the stations.
type StationQuery struct {
	Center     *Coordinates
	Radius     float64
	Name       string
	ChainID    *int64
	FuelTypeID *int64
	ServiceID  *int64
	Page       PageRequest
}

// StationFilter is the part of a StationQuery which can be evaluated
// by the database.
type StationFilter struct {
	Box        *BoundingBox
	Name       string
	ChainID    *int64
	FuelTypeID *int64
	ServiceID  *int64
}

// OpeningHours describes the opening and closing times of a station
// in one day of week (0 is Sunday). Times are HHMM integers.
type OpeningHours struct {
	DayOfWeek int
	Opening   int
	Closing   int
}

// Validate checks the oh day and times.
func (oh OpeningHours) Validate() error {
	switch {
	case oh.DayOfWeek < 0 || oh.DayOfWeek > 6:
		return fmt.Errorf("day of week out of range: %d", oh.DayOfWeek)
	case !validHHMM(oh.Opening):
		return fmt.Errorf("invalid opening time: %04d", oh.Opening)
	case !validHHMM(oh.Closing):
		return fmt.Errorf("invalid closing time: %04d", oh.Closing)
	case oh.Opening >= oh.Closing:
		return fmt.Errorf("opening time must precede the closing time")
	}
	return nil
}

// ValidateWeek validates every entry of hours and ensures that days
// are not repeated.
func ValidateWeek(hours []OpeningHours) error {
	var seen [7]bool
	for _, oh := range hours {
		if err := oh.Validate(); err != nil {
			return err
		}
		if seen[oh.DayOfWeek] {
			return fmt.Errorf("day of week repeated: %d", oh.DayOfWeek)
		}
		seen[oh.DayOfWeek] = true
	}
	return nil
}

func validHHMM(t int) bool {
	return t >= 0 && t <= 2359 && t%100 < 60
}

func checkLen(field, s string, minLen, maxLen int) error {
	switch n := utf8.RuneCountInString(s); {
	case n < minLen && minLen == 1:
		return fmt.Errorf("%s is required", field)
	case n < minLen:
		return fmt.Errorf("%s must be at least %d characters", field, minLen)
	case n > maxLen:
		return fmt.Errorf("%s must be at most %d characters", field, maxLen)
	}
	return nil
}
