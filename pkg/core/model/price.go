// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"math"
	"time"
)

// MaxPrice is the largest price which fits in a numeric(5,2) column.
const MaxPrice = 999.99

// PriceStatus is the moderation status of a FuelPrice.
type PriceStatus string

const (
	PricePending  PriceStatus = "PENDING"
	PriceAccepted PriceStatus = "ACCEPTED"
	PriceRejected PriceStatus = "REJECTED"
)

// ParsePriceStatus validates the s string as a PriceStatus.
func ParsePriceStatus(s string) (PriceStatus, error) {
	switch ps := PriceStatus(s); ps {
	case PricePending, PriceAccepted, PriceRejected:
		return ps, nil
	default:
		return "", fmt.Errorf("unknown price status: %q", s)
	}
}

// Price priorities. Prices which are reported by station owners or
// administrators win over user reports of the same instant.
const (
	PriorityUser  uint8 = 0
	PriorityOwner uint8 = 1
)

// FuelPrice is a reported price of one fuel type at one station.
type FuelPrice struct {
	ID        int64
	StationID int64
	FuelType  NamedEntity
	Price     float64
	Available bool
	Status    PriceStatus
	Priority  uint8
	UserID    int64
	CreatedAt time.Time
}

// PriceInput is one entry of a price submission.
type PriceInput struct {
	FuelTypeID int64
	Price      float64
	Available  bool
}

// Normalize rounds pi price to cents and validates its range.
func (pi *PriceInput) Normalize() error {
	if !math.IsNaN(pi.Price) {
		pi.Price = math.Round(pi.Price*100) / 100
	}
	if math.IsNaN(pi.Price) || pi.Price <= 0 || pi.Price > MaxPrice {
		return fmt.Errorf(
			"price of fuel type %d must be in (0, %.2f]: %v",
			pi.FuelTypeID, MaxPrice, pi.Price,
		)
	}
	return nil
}
