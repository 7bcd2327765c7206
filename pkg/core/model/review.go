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
)

// Review rate boundaries.
const (
	MinRate = 1
	MaxRate = 5
)

// Review is a user review of a fuel station. Username is filled from
// the author row, so listings need no extra lookups.
type Review struct {
	ID        int64
	StationID int64
	UserID    int64
	Username  string
	Content   string
	Rate      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewInput carries the writable fields of a Review.
type ReviewInput struct {
	Content string
	Rate    int
}

// Normalize trims and validates the ri fields.
func (ri *ReviewInput) Normalize() error {
	ri.Content = strings.TrimSpace(ri.Content)
	var errs []error
	if ri.Rate < MinRate || ri.Rate > MaxRate {
		errs = append(errs, fmt.Errorf(
			"rate must be between %d and %d", MinRate, MaxRate,
		))
	}
	errs = append(errs, checkLen("content", ri.Content, 0, 1000))
	return errors.Join(errs...)
}

// RatingSummary aggregates the reviews of a station.
type RatingSummary struct {
	Average float64
	Count   int64
}

// Favorite is a station which is marked by a user.
type Favorite struct {
	Station   FuelStation
	CreatedAt time.Time
}
