// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NamedEntity is a catalog row which only has an id and a unique name,
// such as a fuel type, a station chain, or a station service.
type NamedEntity struct {
	ID   int64
	Name string
}

// CatalogKind identifies one of the named-entity catalogs.
type CatalogKind string

const (
	FuelTypes       CatalogKind = "fuel-types"
	StationChains   CatalogKind = "station-chains"
	StationServices CatalogKind = "station-services"
)

// CatalogKinds lists all catalogs.
var CatalogKinds = []CatalogKind{FuelTypes, StationChains, StationServices}

// MaxNameLength returns the maximum name length of the k catalog.
func (k CatalogKind) MaxNameLength() int {
	if k == StationChains {
		return 128
	}
	return 32
}

// ValidateName trims and validates the name of an entity of k catalog.
func (k CatalogKind) ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return "", fmt.Errorf("name is required")
	case n > k.MaxNameLength():
		return "", fmt.Errorf(
			"name must be at most %d characters", k.MaxNameLength(),
		)
	}
	return name, nil
}
